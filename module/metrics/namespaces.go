package metrics

// Prometheus metric namespaces
const (
	namespaceConsensus = "consensus"
	namespaceExecution = "execution"
)

// Consensus subsystems
const (
	subsystemCache = "cache"
)

// Execution subsystems
const (
	subsystemMessageRouting = "message_routing"
)
