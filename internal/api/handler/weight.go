package handler

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/99minutos/courier-orders/internal/core/domain"
)

// parseWeight accepts 5.5 or "5.5". Anything that is not a finite number
// yields domain.ErrInvalidWeight; non-positive values yield
// domain.ErrWeightNotPositive.
func parseWeight(raw json.RawMessage) (float64, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return 0, domain.ErrInvalidWeight
	}

	var w float64
	if err := json.Unmarshal(raw, &w); err != nil {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, domain.ErrInvalidWeight
		}
		w, err = strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return 0, domain.ErrInvalidWeight
		}
	}

	if err := domain.ValidateWeight(w); err != nil {
		return 0, err
	}
	return w, nil
}
