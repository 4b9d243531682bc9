package cache

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/cespare/xxhash/v2"

	"github.com/Jmurp11/hockey-team-scheduler-sub003/internal/domain/model"
	"github.com/Jmurp11/hockey-team-scheduler-sub003/internal/domain/risk"
)

// Fingerprint hashes an event set and the thresholds applied to it. Event
// order does not matter, matching the evaluator's order invariance.
func Fingerprint(events []model.Event, cfg risk.Config) (uint64, error) {
	hashes := make([]uint64, 0, len(events))
	for _, ev := range events {
		b, err := json.Marshal(ev)
		if err != nil {
			return 0, fmt.Errorf("fingerprint event %s: %w", ev.ID, err)
		}
		hashes = append(hashes, xxhash.Sum64(b))
	}
	slices.Sort(hashes)

	cfgBytes, err := json.Marshal(cfg)
	if err != nil {
		return 0, fmt.Errorf("fingerprint config: %w", err)
	}

	d := xxhash.New()
	_, _ = d.Write(cfgBytes)
	var buf [8]byte
	for _, h := range hashes {
		binary.LittleEndian.PutUint64(buf[:], h)
		_, _ = d.Write(buf[:])
	}
	return d.Sum64(), nil
}
