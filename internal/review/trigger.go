package review

// Trigger is an event that advances the review session.
type Trigger string

const (
	TriggerUpload          Trigger = "UPLOAD"
	TriggerPayloadReceived Trigger = "PAYLOAD_RECEIVED"
	TriggerDisplay         Trigger = "DISPLAY"
	TriggerFail            Trigger = "FAIL"
	TriggerReset           Trigger = "RESET"
)

// String returns the string representation of the trigger.
func (t Trigger) String() string {
	return string(t)
}
