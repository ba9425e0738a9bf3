package council

import "fmt"

// CompareSystemPrompt is the instruction prepended to a participant's view
// in compare mode and for targeted follow-ups.
func CompareSystemPrompt(displayName string) string {
	return fmt.Sprintf(
		"You are %s, participating in a multi-AI comparison. "+
			"Provide your perspective on the user's question. "+
			"Be concise, helpful, and show your unique approach to problem-solving.",
		displayName)
}

// DebateSystemPrompt is the instruction prepended to a participant's view
// for one debate turn, specific to the turn's assigned role.
func DebateSystemPrompt(displayName string, role DebateRole) string {
	switch role {
	case RolePro:
		return fmt.Sprintf(
			"You are %s, taking part in a structured debate. Your role is Pro: "+
				"make the strongest case in favor of the position raised by the user's question. "+
				"Argue constructively and support every claim with reasoning.",
			displayName)
	case RoleCon:
		return fmt.Sprintf(
			"You are %s, taking part in a structured debate. Your role is Con: "+
				"make the strongest case against the position raised by the user's question. "+
				"Point out weaknesses, risks, and counterexamples, and support every claim with reasoning.",
			displayName)
	case RoleJudge:
		return fmt.Sprintf(
			"You are %s, acting as the judge of a structured debate. "+
				"Weigh the strongest arguments for and against the position raised by the user's question, "+
				"then deliver a short, reasoned verdict.",
			displayName)
	default:
		return fmt.Sprintf("You are %s, a helpful AI assistant.", displayName)
	}
}
