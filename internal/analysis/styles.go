package analysis

// Style is a cover art direction whose prompt template carries {theme} and
// {mood} placeholders filled from an Analysis.
type Style struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Description    string `json:"description"`
	PromptTemplate string `json:"promptTemplate"`
	AspectRatio    string `json:"aspectRatio"`
}

// CoverStyles is the fixed catalog of podcast cover directions. IDs match
// the values recommendVisualStyle produces.
var CoverStyles = []Style{
	{
		ID:             "professional",
		Name:           "Professional",
		Description:    "Clean, corporate design with modern typography",
		PromptTemplate: "Professional podcast cover design, clean modern layout, corporate style, professional typography, {theme} theme, {mood} atmosphere, minimalist design, high quality",
		AspectRatio:    "1:1",
	},
	{
		ID:             "creative",
		Name:           "Creative/Artistic",
		Description:    "Bold, artistic design with creative elements",
		PromptTemplate: "Creative artistic podcast cover, bold design, artistic elements, vibrant colors, {theme} theme, {mood} mood, experimental typography, modern art style",
		AspectRatio:    "1:1",
	},
	{
		ID:             "tech",
		Name:           "Tech/Digital",
		Description:    "Modern tech aesthetic with digital elements",
		PromptTemplate: "Tech podcast cover design, digital aesthetic, modern technology theme, sleek interface, {theme} focus, {mood} vibe, futuristic elements, clean tech style",
		AspectRatio:    "1:1",
	},
	{
		ID:             "storytelling",
		Name:           "Storytelling/Narrative",
		Description:    "Narrative-driven design with story elements",
		PromptTemplate: "Storytelling podcast cover, narrative design, story elements, {theme} theme, {mood} atmosphere, book-like aesthetic, literary style, engaging visual narrative",
		AspectRatio:    "1:1",
	},
	{
		ID:             "educational",
		Name:           "Educational",
		Description:    "Academic and learning-focused design",
		PromptTemplate: "Educational podcast cover design, learning theme, academic style, knowledge focus, {theme} subject, {mood} tone, educational graphics, professional learning aesthetic",
		AspectRatio:    "1:1",
	},
	{
		ID:             "entertainment",
		Name:           "Entertainment",
		Description:    "Fun, engaging design for entertainment content",
		PromptTemplate: "Entertainment podcast cover, fun engaging design, entertainment theme, {theme} focus, {mood} energy, vibrant colors, dynamic layout, engaging visual style",
		AspectRatio:    "1:1",
	},
}

// StyleByID looks up a cover style. Unknown IDs fall back to the creative
// style, matching the analyzer's default recommendation path.
func StyleByID(id string) Style {
	for _, style := range CoverStyles {
		if style.ID == id {
			return style
		}
	}
	return StyleByID("creative")
}

// RecommendedStyle returns the cover style matching the analysis.
func RecommendedStyle(a Analysis) Style {
	return StyleByID(a.VisualStyle)
}
