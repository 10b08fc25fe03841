package model

import (
	"sync"
	"testing"

	"cuisine-classifier/internal/infrastructure/config"
	"cuisine-classifier/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func trainingRecipes() []common.Recipe {
	return []common.Recipe{
		common.NewLabeledRecipe(1, "italian", "Parmesan Cheese", "fresh basil", "olive oil", "spaghetti"),
		common.NewLabeledRecipe(2, "mexican", "corn tortillas", "jalapeno chilies", "ground cumin", "black beans"),
		common.NewLabeledRecipe(3, "indian", "garam masala", "ghee", "ground turmeric", "basmati rice"),
		common.NewLabeledRecipe(4, "italian", "mozzarella cheese", "fresh basil", "tomatoes", "parmesan cheese"),
		common.NewLabeledRecipe(5, "mexican", "flour tortillas", "salsa", "ground cumin", "jalapeno chilies"),
		common.NewLabeledRecipe(6, "indian", "ghee", "garam masala", "cumin seed", "yoghurt"),
	}
}

func TestPipelineFitPredictDisjointVocabulary(t *testing.T) {
	t.Parallel()

	train := []common.Recipe{
		common.NewLabeledRecipe(1, "italian", "parmesan cheese", "basil"),
		common.NewLabeledRecipe(2, "mexican", "tortillas", "salsa"),
		common.NewLabeledRecipe(3, "indian", "ghee", "garam masala"),
	}
	test := []common.Recipe{
		common.NewRecipe(101, "seaweed", "rice vinegar"),
		common.NewRecipe(102, "kimchi", "gochujang"),
	}

	p := New(DefaultOptions())
	require.NoError(t, p.FitRecipes(train, test))

	preds, err := p.PredictRecipes(test)
	require.NoError(t, err)
	require.Len(t, preds, 2)

	labels := []string{"italian", "mexican", "indian"}
	assert.Equal(t, 101, preds[0].ID)
	assert.Equal(t, 102, preds[1].ID)
	for _, pred := range preds {
		assert.Contains(t, labels, pred.Cuisine)
	}
}

func TestPipelinePredictsDistinctiveIngredients(t *testing.T) {
	t.Parallel()

	test := []common.Recipe{
		common.NewRecipe(201, "ghee", "garam masala", "onions"),
		common.NewRecipe(202, "fresh basil", "Parmesan cheese", "pasta"),
		common.NewRecipe(203, "corn tortillas", "salsa", "chicken"),
	}

	p := New(DefaultOptions())
	require.NoError(t, p.FitRecipes(trainingRecipes(), test))

	preds, err := p.PredictRecipes(test)
	require.NoError(t, err)
	assert.Equal(t, []common.Prediction{
		{ID: 201, Cuisine: "indian"},
		{ID: 202, Cuisine: "italian"},
		{ID: 203, Cuisine: "mexican"},
	}, preds)

	assert.Equal(t, []string{"indian", "italian", "mexican"}, p.Classes())
	sizes := p.FeatureSizes()
	assert.Positive(t, sizes[IngredientFeatures])
	assert.Positive(t, sizes[WordFeatures])
}

func TestPipelineExtraOnlyEnrichesVocabulary(t *testing.T) {
	t.Parallel()

	extra := [][]string{{"kimchi"}}
	tokens := [][]string{{"basil"}, {"salsa"}}

	without := New(DefaultOptions())
	require.NoError(t, without.Fit(tokens, []string{"italian", "mexican"}, nil))
	with := New(DefaultOptions())
	require.NoError(t, with.Fit(tokens, []string{"italian", "mexican"}, extra))

	assert.Equal(t, without.FeatureSizes()[IngredientFeatures]+1, with.FeatureSizes()[IngredientFeatures])
	assert.Equal(t, []string{"italian", "mexican"}, with.Classes())
}

func TestPipelineErrors(t *testing.T) {
	t.Parallel()

	p := New(DefaultOptions())
	assert.False(t, p.Fitted())
	assert.Nil(t, p.Classes())
	assert.Nil(t, p.FeatureSizes())

	_, err := p.Predict([][]string{{"salt"}})
	assert.ErrorIs(t, err, common.ErrModelNotFitted)

	assert.ErrorIs(t, p.Fit(nil, nil, nil), ErrNoSamples)
	assert.Error(t, p.Fit([][]string{{"salt"}}, []string{"a", "b"}, nil))
	assert.ErrorIs(t, p.Fit([][]string{{"salt"}, {"sugar"}}, []string{"a", "a"}, nil), ErrSingleClass)
	assert.ErrorIs(t, p.Fit([][]string{{"a"}, {"b"}}, []string{"x", "y"}, nil), ErrEmptyVocabulary)

	err = p.FitRecipes([]common.Recipe{common.NewRecipe(1, "salt")}, nil)
	assert.ErrorIs(t, err, common.ErrMissingLabel)
	assert.False(t, p.Fitted())
}

func TestPipelineConcurrentPredict(t *testing.T) {
	t.Parallel()

	p := New(DefaultOptions())
	require.NoError(t, p.FitRecipes(trainingRecipes(), nil))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := p.Predict([][]string{{"ghee", "garam masala"}})
			assert.NoError(t, err)
			assert.Equal(t, []string{"indian"}, got)
		}()
	}
	wg.Wait()
}

func TestOptionsFromConfig(t *testing.T) {
	t.Parallel()

	opts := OptionsFromConfig(config.ModelConfig{
		NgramMin:     1,
		NgramMax:     2,
		StripAccents: true,
		Loss:         "squared_hinge",
		C:            0.5,
		Tol:          1e-3,
		MaxIter:      50,
		Seed:         7,
	})

	assert.Equal(t, 2, opts.NgramMax)
	assert.True(t, opts.StripAccents)
	assert.Equal(t, SquaredHingeLoss, opts.SVM.Loss)
	assert.Equal(t, 0.5, opts.SVM.C)
	assert.Equal(t, int64(7), opts.SVM.Seed)
}
