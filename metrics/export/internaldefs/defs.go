package internaldefs

import (
	"github.com/MrEthical07/toxin"
)

// CounterDef names one engine counter for exporters.
type CounterDef struct {
	ID   toxin.MetricID
	Name string
	Help string
}

// HistogramDef names one engine latency histogram for exporters.
type HistogramDef struct {
	ID   toxin.MetricID
	Name string
	Help string
}

// CounterDefs lists every exported counter in output order.
var CounterDefs = []CounterDef{
	{ID: toxin.MetricSignInSuccess, Name: "toxin_sign_in_success_total", Help: "Sign-ins that issued a session token."},
	{ID: toxin.MetricSignInFailure, Name: "toxin_sign_in_failure_total", Help: "Sign-ins rejected with invalid credentials."},
	{ID: toxin.MetricSignInStoreError, Name: "toxin_sign_in_store_error_total", Help: "Sign-ins aborted by a store failure."},
	{ID: toxin.MetricSessionCreated, Name: "toxin_session_created_total", Help: "Session records written."},
	{ID: toxin.MetricResolveSuccess, Name: "toxin_resolve_success_total", Help: "Session tokens resolved to an identity."},
	{ID: toxin.MetricResolveFailure, Name: "toxin_resolve_failure_total", Help: "Session tokens with no usable session."},
	{ID: toxin.MetricResolveStoreError, Name: "toxin_resolve_store_error_total", Help: "Resolves aborted by a session store failure."},
	{ID: toxin.MetricSignOut, Name: "toxin_sign_out_total", Help: "Deleted sessions."},
	{ID: toxin.MetricAccountCreated, Name: "toxin_account_created_total", Help: "Created accounts."},
	{ID: toxin.MetricAccountDuplicate, Name: "toxin_account_duplicate_total", Help: "Account writes rejected for a taken username."},
	{ID: toxin.MetricAccountUpdated, Name: "toxin_account_updated_total", Help: "Updated accounts."},
	{ID: toxin.MetricAccountDeleted, Name: "toxin_account_deleted_total", Help: "Deleted accounts."},
}

// HistogramDefs lists every exported latency histogram.
var HistogramDefs = []HistogramDef{
	{ID: toxin.MetricSignInLatency, Name: "toxin_sign_in_latency_seconds", Help: "SignIn latency."},
	{ID: toxin.MetricResolveLatency, Name: "toxin_resolve_latency_seconds", Help: "Resolve latency."},
}

// AuditDroppedName is the counter for audit events dropped under backpressure.
const AuditDroppedName = "toxin_audit_dropped_total"

// AuditDroppedHelp describes [AuditDroppedName].
const AuditDroppedHelp = "Audit events dropped under dispatcher backpressure."

// HistogramUpperBounds are the finite bucket bounds in seconds. The eighth
// bucket is +Inf.
var HistogramUpperBounds = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5}

// HistogramBoundLabels are the "le" label values of each bucket, +Inf
// included.
var HistogramBoundLabels = []string{"0.005", "0.01", "0.025", "0.05", "0.1", "0.25", "0.5", "+Inf"}

// NormalizeBuckets copies raw into a fixed eight-bucket array, padding with
// zeros.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets turns per-bucket counts into running totals.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}
