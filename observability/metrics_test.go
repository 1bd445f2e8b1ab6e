package observability

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRegisterMetricsAndRecordersAreSafe(t *testing.T) {
	RegisterMetrics()
	RegisterMetrics()

	RecordHTTPRequest("GET", "/health", 200, 12*time.Millisecond)
	RecordRelay("choiceMade")
	RecordGraceExpired()
	SetLobbyGauges(3, 2, 2)

	if got := testutil.ToFloat64(connections); got != 3 {
		t.Fatalf("connections = %v, want 3", got)
	}
	if got := testutil.ToFloat64(activeDuels); got != 2 {
		t.Fatalf("active duels = %v, want 2", got)
	}
}

func TestRecordRequestCountsByOutcome(t *testing.T) {
	before := testutil.ToFloat64(requests.WithLabelValues(OutcomeExpired))
	RecordRequest(OutcomeExpired)
	RecordRequest(OutcomeExpired)
	after := testutil.ToFloat64(requests.WithLabelValues(OutcomeExpired))
	if after-before != 2 {
		t.Fatalf("expired delta = %v, want 2", after-before)
	}
}
