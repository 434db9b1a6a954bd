package chat

const (
	SystemPrompt = "You are a helpful and knowledgeable assistant for L'Oréal. Only answer questions related to L'Oréal products, skincare and haircare routines, beauty recommendations, and how to choose or use L'Oréal items. If a question is unrelated to L'Oréal or its offerings, politely redirect the user to ask a relevant question."

	ThinkingMessage         = "Thinking..."
	ApologyMessage          = "Sorry, I'm having trouble connecting right now. Please try again!"
	EmptySelectionMessage   = "Please select products before generating a routine."
	GeneratingRoutineNotice = "Generating your personalized routine..."

	routinePromptFormat = "Here are the selected L'Oréal products: %s. Please create a personalized beauty routine using these products. Explain the order and how to use each item."
)
