package pubsub

const RosterTopic = "roster"

// ConversationTopic names the topic for one two-party conversation,
// keyed by its deterministic pair key.
func ConversationTopic(pairKey string) string {
	return "conversation:" + pairKey
}
