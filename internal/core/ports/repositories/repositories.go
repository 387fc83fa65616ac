package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// Every store backend returns one of these.
type RepositoryProvider struct {
	AccountRepo  AccountReader
	JournalRepo  JournalRepositoryFacade
	CustomerRepo CustomerRepositoryFacade
	// Close releases the backend's connections.
	Close func()
}
