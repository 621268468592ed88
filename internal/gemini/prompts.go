package gemini

import "fmt"

// ChatSystemInstruction defines the system instruction for the conversational
// chat loop. It sets the coaching persona used when users talk to the bot
// directly.
const ChatSystemInstruction = `You are a friendly coach. You motivate the user, help them stop procrastinating, and suggest practical ways to get their tasks done. Keep replies conversational and concise.`

// MotivationSystemInstruction defines the system instruction used when
// generating reminder motivation for a task that is due soon.
const MotivationSystemInstruction = `You are a positive and friendly coach who helps people stop putting things off and supports them.`

// motivationPromptTemplate is the user prompt for reminder motivation. The
// length limit is enforced by instruction only; the result is never truncated
// programmatically.
const motivationPromptTemplate = `Remind me about the task: %q. It is due in about 15 minutes. Give me encouragement, suggest how to get started, and add a tip or two for getting it done well. Keep the entire message under 250 characters.`

// BuildMotivationPrompt renders the motivation prompt for a task description.
func BuildMotivationPrompt(description string) string {
	return fmt.Sprintf(motivationPromptTemplate, description)
}
