package interfaces

import "dialysis_autofill/domain/entities"

// ProgressSink receives progress events synchronously on the caller's goroutine
type ProgressSink func(event entities.ProgressEvent)
