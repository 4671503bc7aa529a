// Package status aggregates the node's independent health signals into
// one composite document served over HTTP.
package status

// SimpleCheck is a single evaluable unit of health: a boolean outcome
// plus an optional human-readable explanation. A failing check carries
// a message saying why.
type SimpleCheck struct {
	Ok      bool    `json:"ok"`
	Message *string `json:"message"`
}

// LastBlockCheck extends SimpleCheck with the identity and recency
// metadata of the most recent qualifying block, so operators can tell
// "never saw a block" apart from "saw one long ago".
type LastBlockCheck struct {
	Ok        bool    `json:"ok"`
	Message   *string `json:"message"`
	BlockHash *string `json:"blockHash"`
	Timestamp *int64  `json:"timestamp"`
	JRank     *int64  `json:"jRank"`
}

// Checklist is the fixed record of the five node health checks.
type Checklist struct {
	Database          SimpleCheck    `json:"database"`
	Peers             SimpleCheck    `json:"peers"`
	Bootstrap         SimpleCheck    `json:"bootstrap"`
	LastReceivedBlock LastBlockCheck `json:"lastReceivedBlock"`
	LastCreatedBlock  LastBlockCheck `json:"lastCreatedBlock"`
}

// Ok reports overall validity: the conjunction of all five checks, no
// weighting.
func (c Checklist) Ok() bool {
	return c.Database.Ok &&
		c.Peers.Ok &&
		c.Bootstrap.Ok &&
		c.LastReceivedBlock.Ok &&
		c.LastCreatedBlock.Ok
}

// Status is the composite health document.
type Status struct {
	Version   string    `json:"version"`
	Ok        bool      `json:"ok"`
	Checklist Checklist `json:"checklist"`
}
