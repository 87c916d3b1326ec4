package chat

// ResolveOriginalQuestion follows a message's back-reference to the user
// question that originated its thread. It returns false when the message has
// no back-reference or the reference does not name an existing user message
// in the history.
func ResolveOriginalQuestion(history []Message, msg Message) (Message, bool) {
	if msg.RelatedQuestionID == "" {
		return Message{}, false
	}
	for _, m := range history {
		if m.ID == msg.RelatedQuestionID && m.Role == RoleUser {
			return m, true
		}
	}
	return Message{}, false
}
