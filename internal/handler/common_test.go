package handler

import (
	"net/http"
	"testing"

	"github.com/iliyamo/restaurant-reservation/internal/service"
)

func TestStatusFor(t *testing.T) {
	cases := []struct {
		kind service.Kind
		want int
	}{
		{service.KindValidation, http.StatusBadRequest},
		{service.KindInvalidAccess, http.StatusForbidden},
		{service.KindNotFound, http.StatusNotFound},
		{service.KindConflict, http.StatusConflict},
		{service.KindNotSettled, http.StatusConflict},
		{service.KindGatewayUnavailable, http.StatusBadGateway},
		{service.KindPersistence, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := statusFor(tc.kind); got != tc.want {
			t.Errorf("kind %q: expected %d, got %d", tc.kind, tc.want, got)
		}
	}
}
