package events

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "auditflow/pkg/domain"
)

// The payload keys are consumed by the notification service; renaming one is
// a breaking contract change.
func TestProgramSubmitted_WireFormat(t *testing.T) {
	tenantID := id.NewTenantID()
	userID := id.NewUserID()
	submittedAt := time.Date(2026, 3, 2, 10, 30, 0, 0, time.UTC)

	event := ProgramSubmitted{
		ProgramID:   "AP-01HV3E8Q6T5Y4W2X1Z0A9B8C7D",
		ProgramName: "Q2 Internal Audit",
		TenantID:    tenantID,
		TenantName:  "Acme Corp",
		SubmittedBy: userID,
		SubmittedAt: submittedAt,
	}

	raw, err := json.Marshal(event)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))

	assert.Equal(t, "AP-01HV3E8Q6T5Y4W2X1Z0A9B8C7D", decoded["programId"])
	assert.Equal(t, "Q2 Internal Audit", decoded["programName"])
	assert.Equal(t, tenantID.String(), decoded["tenantId"])
	assert.Equal(t, "Acme Corp", decoded["tenantName"])
	assert.Equal(t, userID.String(), decoded["submittedBy"])
	assert.Equal(t, "2026-03-02T10:30:00Z", decoded["submittedAt"])
}

func TestProgramSubmitted_RoundTrip(t *testing.T) {
	event := ProgramSubmitted{
		ProgramID:   "AP-01HV3E8Q6T5Y4W2X1Z0A9B8C7D",
		ProgramName: "Q2 Internal Audit",
		TenantID:    id.NewTenantID(),
		TenantName:  "Acme Corp",
		SubmittedBy: id.NewUserID(),
		SubmittedAt: time.Now().UTC().Truncate(time.Second),
	}

	raw, err := json.Marshal(event)
	require.NoError(t, err)

	var decoded ProgramSubmitted
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, event, decoded)
}
