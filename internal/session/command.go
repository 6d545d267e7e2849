package session

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/radiolab/OpenRadioCore/internal/pmt"
)

// HandleCommand accepts any dynamic command value, converts it to a tuning
// sequence and applies it. Opaque sequences and single items pass straight
// through, maps take the legacy key/value path, and anything else is a
// conversion error. The reply is Null on success.
func (s *Session) HandleCommand(ctx context.Context, v pmt.Value) (pmt.Value, error) {
	start := time.Now()

	seq, err := s.conv.Sequence(v)
	if err == nil {
		err = s.Apply(ctx, seq)
	}
	s.audit(ctx, v, err, time.Since(start))

	if err != nil {
		return pmt.Null{}, err
	}
	return pmt.Null{}, nil
}

func (s *Session) audit(ctx context.Context, v pmt.Value, applyErr error, latency time.Duration) {
	if s.recorder == nil {
		return
	}

	raw, err := pmt.Marshal(v)
	if err != nil {
		// Commands carrying non-serializable payloads are audited without
		// their body rather than not at all.
		raw = []byte(`{"type":"null"}`)
	}
	outcome := "ok"
	if applyErr != nil {
		outcome = applyErr.Error()
	}

	rec := CommandRecord{
		SessionID: s.ID,
		Command:   raw,
		Outcome:   outcome,
		Latency:   latency,
	}
	if err := s.recorder.RecordCommand(ctx, rec); err != nil {
		s.logger.Error("Failed to record command",
			zap.String("session", s.Name),
			zap.Error(err))
	}
}
