package session

import (
	"fmt"

	"demodeck/internal/modal"
	"demodeck/internal/progress"
)

// Simulator IDs.
const (
	SimUpload   = "upload"
	SimDownload = "download"
	SimExport   = "export"
)

// SimIDs lists the simulators in display order.
var SimIDs = []string{SimUpload, SimDownload, SimExport}

// Transfer describes what a simulator pretends to move.
type Transfer struct {
	ID    string
	Label string
	File  string
	Bytes uint64
}

func (t Transfer) verb() string {
	switch t.ID {
	case SimDownload:
		return "downloaded"
	case SimExport:
		return "exported"
	default:
		return "uploaded"
	}
}

func defaultTransfers() []Transfer {
	return []Transfer{
		{ID: SimUpload, Label: "Upload", File: "design-assets.zip", Bytes: 52_400_000},
		{ID: SimDownload, Label: "Download", File: "release-v2.4.0.dmg", Bytes: 187_300_000},
		{ID: SimExport, Label: "Export report", File: "analytics.csv"},
	}
}

// TransferStatus pairs a transfer with its simulator's current state.
type TransferStatus struct {
	Transfer
	progress.Snapshot
}

// Transfers returns every simulator's status in SimIDs order.
func (s *Session) Transfers() []TransferStatus {
	out := make([]TransferStatus, 0, len(SimIDs))
	for _, id := range SimIDs {
		out = append(out, TransferStatus{Transfer: s.transfers[id], Snapshot: s.sims[id].Snapshot()})
	}
	return out
}

// Status returns one simulator's status.
func (s *Session) Status(id string) (TransferStatus, bool) {
	sim, ok := s.sims[id]
	if !ok {
		return TransferStatus{}, false
	}
	return TransferStatus{Transfer: s.transfers[id], Snapshot: sim.Snapshot()}, true
}

// StartUpload starts (or restarts) the upload and returns its run ID.
func (s *Session) StartUpload() string {
	return s.start(SimUpload)
}

// StartDownload starts (or restarts) the download and returns its run ID.
func (s *Session) StartDownload() string {
	return s.start(SimDownload)
}

// ExportReport starts the report export for the current analytics range.
func (s *Session) ExportReport() string {
	return s.start(SimExport)
}

// StartTransfer starts the simulator named id.
func (s *Session) StartTransfer(id string) (string, error) {
	if _, ok := s.sims[id]; !ok {
		return "", fmt.Errorf("unknown transfer %q", id)
	}
	return s.start(id), nil
}

func (s *Session) start(id string) string {
	runID := s.sims[id].Start(s.ctx)
	s.logger.Info("transfer started", "sim", id, "run", runID)
	return runID
}

// CancelTransfer stops the named simulator and resets it to zero.
func (s *Session) CancelTransfer(id string) error {
	sim, ok := s.sims[id]
	if !ok {
		return fmt.Errorf("unknown transfer %q", id)
	}
	sim.Cancel()
	return nil
}

// Wait blocks until every simulator's tick goroutine has exited.
func (s *Session) Wait() {
	for _, sim := range s.sims {
		sim.Wait()
	}
}

func (s *Session) reportPayload() modal.ReportPayload {
	days := rangeDays(s.Analytics.Range)
	return modal.ReportPayload{
		Name:  fmt.Sprintf("analytics-%s.csv", s.Analytics.Range),
		Range: fmt.Sprintf("last %d days", days),
		Rows:  days * 24,
	}
}
