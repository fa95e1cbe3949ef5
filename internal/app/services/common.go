package services

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/DeltaGMU/PCA-PrimaryServer-sub000/internal/pkg/apperrors"
	"github.com/DeltaGMU/PCA-PrimaryServer-sub000/internal/pkg/helpers"
)

func parseDate(value string) (time.Time, error) {
	t, err := helpers.ParseDate(value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", apperrors.ErrValidationFailed, err)
	}
	return t, nil
}

func parseDateRange(start, end string) (time.Time, time.Time, error) {
	from, to, err := helpers.ParseDateRange(start, end)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %v", apperrors.ErrValidationFailed, err)
	}
	return from, to, nil
}

// missingIDs returns the requested IDs absent from found, in request order.
func missingIDs(requested []string, found map[string]bool) []string {
	var missing []string
	for _, id := range requested {
		if !found[id] {
			missing = append(missing, id)
		}
	}
	return missing
}

func joinIDs(ids []string) string {
	sorted := append([]string(nil), ids...)
	sort.Strings(sorted)
	return strings.Join(sorted, ", ")
}

func lowerEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func lowerOptional(s *string) *string {
	s = helpers.OptionalString(s)
	if s == nil {
		return nil
	}
	v := strings.ToLower(*s)
	return &v
}

func boolOr(v *bool, fallback bool) bool {
	if v == nil {
		return fallback
	}
	return *v
}
