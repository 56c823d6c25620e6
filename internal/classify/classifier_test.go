package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"catalogsync/internal/model"
)

func TestClassify(t *testing.T) {
	c := New(DefaultRules())

	tests := []struct {
		name       string
		record     model.ProductRecord
		expected   model.ProductType
		wantType   model.ProductType
		wantConf   int
		wantReason string
	}{
		{
			name:       "fastener keyword",
			record:     model.ProductRecord{Name: "Hex bolt M8", URL: "https://shop.example.com/item/1"},
			wantType:   model.TypePart,
			wantConf:   95,
			wantReason: `Part keyword: "bolt" (high confidence)`,
		},
		{
			name:       "no indicators",
			record:     model.ProductRecord{Name: "Gift card", URL: "https://example.com/p/1"},
			wantType:   model.TypeUnknown,
			wantConf:   0,
			wantReason: "No clear indicators found",
		},
		{
			name:       "tie without hint",
			record:     model.ProductRecord{Name: "bolt sheet", URL: "https://example.com/p/1"},
			wantType:   model.TypeUnknown,
			wantConf:   50,
			wantReason: "Equal indicators for both types",
		},
		{
			name:       "tie resolved by hint",
			record:     model.ProductRecord{Name: "sheet plate tube pipe wire", URL: "https://example.com/p/1"},
			expected:   model.TypePart,
			wantType:   model.TypePart,
			wantConf:   50,
			wantReason: "User specified as part",
		},
		{
			name: "sized sheet",
			record: model.ProductRecord{
				Name:         "Aluminum Sheet 12 x 24 inches",
				URL:          "https://example.com/p/1",
				MaterialType: "Aluminum",
				Dimensions:   model.Dimensions{Length: model.Float(12), Width: model.Float(24), Unit: "in"},
			},
			wantType:   model.TypeMaterial,
			wantConf:   95,
			wantReason: "Dimensional sizing in name (material indicator)",
		},
		{
			name: "mixed signals",
			record: model.ProductRecord{
				Name:       "bolt",
				URL:        "https://example.com/p/1",
				Dimensions: model.Dimensions{Length: model.Float(1), Width: model.Float(2), Unit: "in"},
			},
			wantType:   model.TypePart,
			wantConf:   67,
			wantReason: "Has dimensional specifications (material indicator)",
		},
		{
			name:       "url segments",
			record:     model.ProductRecord{Name: "Thing", URL: "https://example.com/hardware/parts/1"},
			wantType:   model.TypePart,
			wantConf:   95,
			wantReason: `URL contains "hardware" (part indicator)`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Classify(&tt.record, tt.expected)
			assert.Equal(t, tt.wantType, got.Type)
			assert.Equal(t, tt.wantConf, got.Confidence)
			assert.Contains(t, got.Reasons, tt.wantReason)
		})
	}
}

func TestClassifyScoresAreCumulative(t *testing.T) {
	c := New(DefaultRules())
	got := c.Classify(&model.ProductRecord{Name: "screw and washer, bulk", URL: "https://example.com"}, "")

	assert.Equal(t, 20, got.Scores.Part)
	assert.Equal(t, 8, got.Scores.Material)
	assert.Equal(t, model.TypePart, got.Type)
	assert.Equal(t, 71, got.Confidence)
}

func TestClassifyCustomRules(t *testing.T) {
	rules := DefaultRules()
	rules.MaxConfidence = 80
	got := New(rules).Classify(&model.ProductRecord{Name: "rivet"}, "")

	assert.Equal(t, model.TypePart, got.Type)
	assert.Equal(t, 80, got.Confidence)
}
