package resource

import "github.com/vmihailenco/msgpack"

// observationSnapshot is the wire shape for an *Observation, used by
// Snapshot/FromSnapshot as a test-fixture dump-and-reload helper.
type observationSnapshot struct {
	URL          string `msgpack:"url"`
	HostName     string `msgpack:"host"`
	Status       int    `msgpack:"status"`
	StartTimeMs  int64  `msgpack:"start_time_ms"`
	HasStartTime bool   `msgpack:"has_start_time"`
	Location     string `msgpack:"location"`
}

// Snapshot encodes every *Observation held by c into a msgpack blob.
// Resources added to c that are not *Observation are skipped; ok
// reports whether every held resource could be captured.
func Snapshot(c *Collection) (data []byte, ok bool, err error) {
	snaps := make([]observationSnapshot, 0, len(c.entries))
	ok = true
	for _, e := range c.entries {
		o, isObservation := e.Resource.(*Observation)
		if !isObservation {
			ok = false
			continue
		}
		snaps = append(snaps, observationSnapshot{
			URL:          o.URL,
			HostName:     o.HostName,
			Status:       o.Status,
			StartTimeMs:  o.StartTimeMs,
			HasStartTime: o.HasStartTimeFlag,
			Location:     o.Location,
		})
	}

	data, err = msgpack.Marshal(snaps)
	if err != nil {
		return nil, false, err
	}
	return data, ok, nil
}

// FromSnapshot decodes data produced by Snapshot back into fresh
// Observations, ready for a new Collection's Add calls.
func FromSnapshot(data []byte) ([]*Observation, error) {
	var snaps []observationSnapshot
	if err := msgpack.Unmarshal(data, &snaps); err != nil {
		return nil, err
	}

	out := make([]*Observation, len(snaps))
	for i, s := range snaps {
		out[i] = NewObservation(s.URL, s.HostName, s.Status, s.Location, s.HasStartTime, s.StartTimeMs)
	}
	return out, nil
}
