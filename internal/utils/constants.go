package utils

// Shared message constants.
const (
	// LoggerInitializationFailedMessageFormat reports a failure to build the logger.
	LoggerInitializationFailedMessageFormat = "failed to initialize logger: %w"
	// ApplicationExecutionFailedMessage prefixes a fatal command error.
	ApplicationExecutionFailedMessage = "application execution failed"
)
