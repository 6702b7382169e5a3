package models

// exampleButtons are the sample favourites offered per role.
var exampleButtons = map[Role][]ButtonData{
	RoleMom: {
		{Emoji: "🍰", Text: "Cooking"},
		{Emoji: "💝", Text: "Family Time"},
		{Emoji: "📚", Text: "Reading"},
		{Emoji: "🌈", Text: "Walking"},
		{Emoji: "☕", Text: "Coffee Time"},
		{Emoji: "🧘", Text: "Yoga"},
	},
	RoleDad: {
		{Emoji: "🎣", Text: "Fishing"},
		{Emoji: "⚽", Text: "Soccer"},
		{Emoji: "🛠️", Text: "DIY"},
		{Emoji: "🚗", Text: "Driving"},
		{Emoji: "🏔️", Text: "Hiking"},
		{Emoji: "📰", Text: "Reading News"},
	},
	RoleDaughter: {
		{Emoji: "🎨", Text: "Drawing"},
		{Emoji: "🎵", Text: "Singing"},
		{Emoji: "💃", Text: "Dancing"},
		{Emoji: "📖", Text: "Story Books"},
		{Emoji: "🎭", Text: "Acting"},
		{Emoji: "🌸", Text: "Gardening"},
	},
	RoleSon: {
		{Emoji: "🎮", Text: "Gaming"},
		{Emoji: "🚀", Text: "Space Trips"},
		{Emoji: "🏃", Text: "Running"},
		{Emoji: "🎸", Text: "Guitar"},
		{Emoji: "🏀", Text: "Basketball"},
		{Emoji: "🎯", Text: "Darts"},
	},
}

// Examples returns a copy of the sample buttons for role.
func Examples(role Role) []ButtonData {
	src := exampleButtons[role]
	out := make([]ButtonData, len(src))
	copy(out, src)
	return out
}
