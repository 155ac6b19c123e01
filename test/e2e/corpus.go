// Package e2e provides end-to-end tests over the HTTP API with a passage
// corpus and query test cases.
package e2e

import (
	"github.com/hyperjump/eiyo/internal/models"
	"github.com/hyperjump/eiyo/pkg/utils"
)

// CorpusDimensions is the embedding size used by the e2e corpus. Passages and
// queries carry explicit embeddings so retrieval quality is deterministic.
const CorpusDimensions = 8

// QueryTestCase defines a question with its query embedding and the passage
// ID(s) expected among the answer's sources.
type QueryTestCase struct {
	Query          string
	Embedding      []float32
	ExpectedTopIDs []string
	Description    string
}

// Corpus holds passages and query test cases for e2e tests.
type Corpus struct {
	Passages  []*models.PassageInput
	TestCases []QueryTestCase
}

// topicVector returns an L2-normalized vector near the topic axis. Passages on
// the same topic cluster around the axis with small per-passage offsets so
// within-topic ranking is deterministic.
func topicVector(axis int, offset float32) []float32 {
	v := make([]float32, CorpusDimensions)
	v[axis] = 1
	v[(axis+1)%CorpusDimensions] = offset
	utils.NormalizeL2(v)
	return v
}

// BuildCorpus returns a nutrition passage corpus across distinct topics, each
// topic aligned to its own embedding axis.
func BuildCorpus() *Corpus {
	passages := []*models.PassageInput{
		{ID: "vitd-1", Content: "Adults aged 19 to 70 need 600 IU of vitamin D daily; adults over 70 need 800 IU.", Metadata: map[string]interface{}{"page": 12}, Embedding: topicVector(0, 0.05)},
		{ID: "vitd-2", Content: "Vitamin D supports calcium absorption in the gut and maintains serum calcium levels.", Metadata: map[string]interface{}{"page": 13}, Embedding: topicVector(0, 0.20)},
		{ID: "vitd-3", Content: "Few foods naturally contain vitamin D; fatty fish such as salmon and mackerel are the best sources.", Metadata: map[string]interface{}{"page": 14}, Embedding: topicVector(0, 0.35)},
		{ID: "iron-1", Content: "Iron is essential for hemoglobin, which carries oxygen from the lungs to the tissues.", Metadata: map[string]interface{}{"page": 31}, Embedding: topicVector(1, 0.05)},
		{ID: "iron-2", Content: "Heme iron from meat is absorbed better than non-heme iron from plant foods.", Metadata: map[string]interface{}{"page": 32}, Embedding: topicVector(1, 0.20)},
		{ID: "fiber-1", Content: "Dietary fiber adds bulk to stool and supports regular bowel movements.", Metadata: map[string]interface{}{"page": 45}, Embedding: topicVector(2, 0.05)},
		{ID: "fiber-2", Content: "Whole grains, legumes, fruits, and vegetables are the main sources of dietary fiber.", Metadata: map[string]interface{}{"page": 46}, Embedding: topicVector(2, 0.20)},
		{ID: "protein-1", Content: "The recommended dietary allowance for protein is 0.8 grams per kilogram of body weight.", Metadata: map[string]interface{}{"page": 58}, Embedding: topicVector(3, 0.05)},
		{ID: "protein-2", Content: "Complete proteins contain all nine essential amino acids the body cannot synthesize.", Metadata: map[string]interface{}{"page": 59}, Embedding: topicVector(3, 0.20)},
		{ID: "calcium-1", Content: "Calcium builds and maintains bone mass; peak bone density is reached around age 30.", Metadata: map[string]interface{}{"page": 71}, Embedding: topicVector(4, 0.05)},
		{ID: "sodium-1", Content: "High sodium intake raises blood pressure; guidelines recommend under 2300 mg per day.", Metadata: map[string]interface{}{"page": 83}, Embedding: topicVector(5, 0.05)},
		{ID: "hydration-1", Content: "Water needs vary with activity and climate; thirst is a reliable guide for most healthy adults.", Metadata: map[string]interface{}{"page": 95}, Embedding: topicVector(6, 0.05)},
	}

	cases := []QueryTestCase{
		{
			Query:          "How much vitamin D do adults need daily?",
			Embedding:      topicVector(0, 0.02),
			ExpectedTopIDs: []string{"vitd-1"},
			Description:    "vitamin D dosage query ranks the dosage passage first",
		},
		{
			Query:          "Why does the body need iron?",
			Embedding:      topicVector(1, 0.02),
			ExpectedTopIDs: []string{"iron-1"},
			Description:    "iron function query ranks the hemoglobin passage first",
		},
		{
			Query:          "What foods are high in fiber?",
			Embedding:      topicVector(2, 0.25),
			ExpectedTopIDs: []string{"fiber-2"},
			Description:    "fiber sources query ranks the food sources passage first",
		},
		{
			Query:          "How much protein should I eat?",
			Embedding:      topicVector(3, 0.02),
			ExpectedTopIDs: []string{"protein-1"},
			Description:    "protein intake query ranks the RDA passage first",
		},
	}

	return &Corpus{Passages: passages, TestCases: cases}
}
