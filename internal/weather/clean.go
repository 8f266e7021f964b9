package weather

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/i474232898/weather-etl/internal/common"
)

var validate = validator.New()

// numericColumns are the columns subject to range checks and imputation.
var numericColumns = []string{ColumnTemperature, ColumnHumidity, ColumnWindSpeed}

type compiledRule struct {
	column string
	tag    string
}

func compileRules(rules []ValidationRule) ([]compiledRule, error) {
	out := make([]compiledRule, 0, len(rules))
	for _, r := range rules {
		var probe WeatherRecord
		if probe.field(r.Field) == nil {
			return nil, fmt.Errorf("validation rule for unknown column %q", r.Field)
		}
		out = append(out, compiledRule{
			column: r.Field,
			tag:    "gte=" + formatParam(r.Min) + ",lte=" + formatParam(r.Max),
		})
	}
	return out, nil
}

func formatParam(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// inRange reports whether every present value of rec satisfies its rule.
// Missing values never violate a rule.
func inRange(rec *WeatherRecord, rules []compiledRule) (bool, error) {
	for _, r := range rules {
		v := *rec.field(r.column)
		if v == nil {
			continue
		}
		if err := validate.Var(*v, r.tag); err != nil {
			var verrs validator.ValidationErrors
			if errors.As(err, &verrs) {
				return false, nil
			}
			return false, err
		}
	}
	return true, nil
}

// Clean drops every row holding a value outside its rule, then fills the
// missing values of each numeric column with the mean of that column over
// the surviving rows. The input slice is not modified.
//
// When no row survives nothing is imputed and an empty slice is returned.
// A column with no present value among the survivors keeps its gaps.
func Clean(records []WeatherRecord, rules []ValidationRule) ([]WeatherRecord, CleanResult, error) {
	res := CleanResult{
		Input:   len(records),
		Imputed: make(map[string]int, len(numericColumns)),
	}

	compiled, err := compileRules(rules)
	if err != nil {
		return nil, res, err
	}

	kept := make([]WeatherRecord, 0, len(records))
	for i := range records {
		rec := records[i]
		ok, err := inRange(&rec, compiled)
		if err != nil {
			return nil, res, fmt.Errorf("row %d (%s): %w", i, rec.Time, err)
		}
		if ok {
			kept = append(kept, rec)
		}
	}
	res.Kept = len(kept)
	res.Dropped = res.Input - res.Kept

	if len(kept) == 0 {
		return kept, res, nil
	}

	for _, col := range numericColumns {
		values := make([]*float64, 0, len(kept))
		for i := range kept {
			values = append(values, *kept[i].field(col))
		}
		mean, ok := common.Mean(common.Present(values))
		if !ok {
			continue
		}
		for i := range kept {
			f := kept[i].field(col)
			if *f == nil {
				*f = common.Float(mean)
				res.Imputed[col]++
			}
		}
	}

	return kept, res, nil
}
