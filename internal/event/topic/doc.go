// Package topic provides the hierarchical names attached to declared events.
//
// Names use dot notation and are labels only; dispatch never looks them up.
// They appear in logs, metric labels and errors, and let tooling list the
// declared events that match a pattern:
//
//	buffer.saved           - a concrete event name
//	buffer.*               - every event one segment below "buffer"
//	buffer.**              - every event anywhere below "buffer"
//	**                     - every event
package topic
