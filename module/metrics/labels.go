package metrics

const (
	LabelStatus = "status"
	LabelPhase  = "phase"
	LabelError  = "error"
)

// outcomes of a batch delivery
const (
	DeliverStatusSuccess   = "success"
	DeliverStatusIgnored   = "ignored"
	DeliverStatusQueueFull = "queue_full"
)

// phases of batch processing
const (
	PhaseReadRegistry = "read_registry"
	PhaseExecuteRound = "execute_round"
	PhaseCommitState  = "commit_state"
	PhaseProcessBatch = "process_batch"
)

// critical errors raised by message routing
const (
	CriticalErrorFailedToReadRegistry       = "mr_failed_to_read_registry_error"
	CriticalErrorMissingOrInvalidPublicKeys = "mr_missing_or_invalid_node_public_keys"
	CriticalErrorMissingOrInvalidSubnetSize = "mr_missing_or_invalid_subnet_size"
	CriticalErrorBatchProcessing            = "mr_batch_processing_error"
)
