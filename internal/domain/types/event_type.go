package types

type FareEvent string

func (s FareEvent) String() string {
	return string(s)
}

// Routing keys on the fare topic exchange double as the websocket event type.
const (
	EventFareRecordSaved   FareEvent = "fare.record.saved"
	EventFareRecordDeleted FareEvent = "fare.record.deleted"
)

func (s FareEvent) Valid() bool {
	switch s {
	case EventFareRecordSaved, EventFareRecordDeleted:
		return true
	}
	return false
}
