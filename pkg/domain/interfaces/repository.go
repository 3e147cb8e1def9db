package interfaces

// Repository defines the interface for data persistence. The caller is
// responsible for calling Close once done.
type Repository interface {
	Assessment() AssessmentRepository
	Close() error
}
