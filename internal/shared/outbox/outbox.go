package outbox

// Outbox row persisted inside the same DB transaction as lifecycle state
// changes. The worker relay reads pending rows and publishes to the broker.
type Message struct {
	ID         string
	EventType  string
	Payload    []byte
	Status     string // pending, published, failed
	RetryCount int
}
