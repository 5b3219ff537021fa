package matching

import (
	"strconv"
	"strings"

	"github.com/engagekit/engage/pkg/models"
)

// EvaluateCondition applies a condition node's comparison to an inbound
// event. Unknown fields evaluate as empty values rather than erroring, so a
// stale field name degrades to the false branch instead of halting the run.
func EvaluateCondition(cond *models.ConditionData, event models.InboundEvent) bool {
	if cond == nil {
		return false
	}

	value, _ := event.Field(cond.Field)

	switch cond.Operator {
	case models.OperatorIsEmpty:
		return value == ""
	case models.OperatorIsNotEmpty:
		return value != ""
	case models.OperatorEquals:
		return value == cond.Value
	case models.OperatorNotEquals:
		return value != cond.Value
	case models.OperatorContains:
		return strings.Contains(value, cond.Value)
	case models.OperatorNotContains:
		return !strings.Contains(value, cond.Value)
	case models.OperatorGreaterThan:
		return compareOrdered(value, cond.Value) > 0
	case models.OperatorLessThan:
		return compareOrdered(value, cond.Value) < 0
	default:
		return false
	}
}

// compareOrdered compares numerically when both sides parse as numbers and
// lexically otherwise.
func compareOrdered(left, right string) int {
	leftNum, leftErr := strconv.ParseFloat(strings.TrimSpace(left), 64)
	rightNum, rightErr := strconv.ParseFloat(strings.TrimSpace(right), 64)

	if leftErr == nil && rightErr == nil {
		switch {
		case leftNum > rightNum:
			return 1
		case leftNum < rightNum:
			return -1
		default:
			return 0
		}
	}

	return strings.Compare(left, right)
}
