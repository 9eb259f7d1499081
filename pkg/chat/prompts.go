package chat

// EmptyResponseText replaces a successful but blank upstream completion.
const EmptyResponseText = "I'm having trouble generating a response right now."

// systemPrompts holds the fixed preamble for each chat type.
var systemPrompts = map[Type]string{
	TypeWhereToGo:    "You are a friendly food AI assistant specialized in recommending restaurants and food establishments. Provide helpful, concise suggestions based on user location and preferences. Focus on local establishments when possible. Keep responses under 200 words.",
	TypeWhatToOrder:  "You are a friendly food AI assistant specialized in recommending menu items. When a user mentions a restaurant, suggest specific dishes they might enjoy. Be concise but descriptive about what makes each dish special. Keep responses under 150 words.",
	TypeSomethingFun: "You are a friendly food AI assistant specialized in suggesting fun and unique food experiences. Recommend unexpected food adventures, fusion cuisines, or novel dining concepts. Be creative, fun, and inspirational. Keep responses under 200 words.",
	TypeHome:         "You are a friendly food AI assistant. Help with any food-related questions the user might have. Be helpful and concise. Keep responses under 150 words.",
}

// fallbackResponses holds the canned reply for each chat type when the
// upstream model cannot be reached.
var fallbackResponses = map[Type]string{
	TypeWhereToGo:    "I'm having trouble with my recommendations right now, but I'd suggest checking out popular review sites like Yelp or Google Maps for great local restaurants in your area!",
	TypeWhatToOrder:  "I'm experiencing some technical difficulties, but I'd recommend asking your server for their most popular dishes or checking online reviews for menu highlights!",
	TypeSomethingFun: "I'm having connectivity issues, but here's a fun idea: try a cuisine you've never had before, or visit a food truck festival if there's one near you!",
	TypeHome:         "I'm experiencing some technical difficulties right now. Please try again in a moment, or feel free to ask me about restaurants, menu items, or food adventures!",
}

// SystemPrompt returns the preamble for t, falling back to the home prompt.
func SystemPrompt(t Type) string {
	if p, ok := systemPrompts[t]; ok {
		return p
	}
	return systemPrompts[TypeHome]
}

// Fallback returns the canned reply for t, falling back to the home reply.
// The result is never empty.
func Fallback(t Type) string {
	if f, ok := fallbackResponses[t]; ok && f != "" {
		return f
	}
	return fallbackResponses[TypeHome]
}

// BuildPrompt combines the system preamble for t with the user message into
// the single completion prompt sent upstream.
func BuildPrompt(t Type, message string) string {
	return SystemPrompt(t) + "\n\nUser: " + message + "\n\nAssistant:"
}
