package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegexClassifier(t *testing.T) {
	tests := []struct {
		name      string
		label     string
		wantOK    bool
		wantMonth string
		wantYear  string
	}{
		{name: "plain month-year", label: "Apr-2017", wantOK: true, wantMonth: "Apr", wantYear: "2017"},
		{name: "doubled month variant", label: "Apr-Apr2017", wantOK: true, wantMonth: "Apr", wantYear: "2017"},
		{name: "surrounding whitespace", label: "  May-2020 ", wantOK: true, wantMonth: "May", wantYear: "2020"},
		{name: "serial column skipped", label: "S.No.", wantOK: false},
		{name: "country column skipped", label: "Country", wantOK: false},
		{name: "revision marker skipped", label: "(R)", wantOK: false},
		{name: "growth column skipped", label: "%Growth", wantOK: false},
		{name: "blank skipped", label: "", wantOK: false},
		{name: "nan skipped", label: "nan", wantOK: false},
		{name: "no year digits excluded", label: "Quantity", wantOK: false},
		{name: "digits only excluded", label: "2020", wantOK: false},
	}

	classifier := RegexClassifier{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			col, ok := classifier.Classify(4, tt.label)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, 4, col.Index)
				assert.Equal(t, tt.wantMonth, col.Month)
				assert.Equal(t, tt.wantYear, col.Year)
			}
		})
	}
}
