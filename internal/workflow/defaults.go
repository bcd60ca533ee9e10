package workflow

// DefaultTemplates returns the built-in template catalog. Callers receive a
// fresh copy and may mutate it freely.
func DefaultTemplates() []Template {
	return []Template{
		{
			ID:          "research-to-podcast",
			Name:        "Research Paper to Podcast",
			Description: "Convert a research paper into a conversational podcast with two speakers",
			Category:    "content",
			Steps: []StepSpec{
				{
					Type:   StepChat,
					Title:  "Generate Summary",
					Prompt: "Please create a comprehensive yet accessible summary of this research paper. Focus on the key findings, methodology, and implications. Keep it under 800 words.",
					Params: Params{Chat: &ChatParams{MaxTokens: 1000}},
				},
				{
					Type:         StepChat,
					Title:        "Create Podcast Script",
					Prompt:       "Based on the summary above, create a 10-15 minute podcast script for two speakers (Host and Expert). Make it conversational, engaging, and educational. Include natural dialogue, questions, and explanations. Format each line as Speaker: text.",
					Params:       Params{Chat: &ChatParams{MaxTokens: 2000}},
					Dependencies: []string{"Generate Summary"},
				},
				{
					Type:         StepTTS,
					Title:        "Generate Podcast Audio",
					Prompt:       "Generate multi-speaker audio from the podcast script",
					Params:       Params{TTS: &TTSParams{Mode: "podcast"}},
					Dependencies: []string{"Create Podcast Script"},
				},
				{
					Type:         StepImage,
					Title:        "Create Cover Image",
					Prompt:       "Generate a professional podcast cover image based on the research content",
					Params:       Params{Image: &ImageParams{Style: "podcast-cover", Size: "1024x1024"}},
					Dependencies: []string{"Generate Summary"},
				},
			},
		},
		{
			ID:          "document-analysis",
			Name:        "Document Analysis & Insights",
			Description: "Analyze document content and provide insights with visual summary",
			Category:    "analysis",
			Steps: []StepSpec{
				{
					Type:   StepChat,
					Title:  "Content Analysis",
					Prompt: "Analyze this document and provide: 1) Key themes and topics, 2) Main arguments or findings, 3) Target audience, 4) Writing style and tone, 5) Actionable insights or takeaways.",
					Params: Params{Chat: &ChatParams{MaxTokens: 1500}},
				},
				{
					Type:         StepChat,
					Title:        "Executive Summary",
					Prompt:       "Create a concise executive summary (200-300 words) highlighting the most important points for decision-makers.",
					Params:       Params{Chat: &ChatParams{MaxTokens: 500}},
					Dependencies: []string{"Content Analysis"},
				},
				{
					Type:         StepImage,
					Title:        "Visual Summary",
					Prompt:       "Create an infographic-style image that visually represents the key insights",
					Params:       Params{Image: &ImageParams{Style: "infographic", Size: "1024x576"}},
					Dependencies: []string{"Content Analysis"},
				},
			},
		},
		{
			ID:          "content-expansion",
			Name:        "Content Expansion & Adaptation",
			Description: "Transform content into multiple formats (summary, detailed analysis, presentation)",
			Category:    "content",
			Steps: []StepSpec{
				{
					Type:   StepChat,
					Title:  "Short Summary",
					Prompt: "Create a brief 150-word summary suitable for social media or quick overview.",
					Params: Params{Chat: &ChatParams{MaxTokens: 300}},
				},
				{
					Type:   StepChat,
					Title:  "Detailed Analysis",
					Prompt: "Provide an in-depth analysis expanding on the key concepts, implications, and potential applications.",
					Params: Params{Chat: &ChatParams{MaxTokens: 2000}},
				},
				{
					Type:         StepChat,
					Title:        "Presentation Outline",
					Prompt:       "Create a structured presentation outline with 8-10 slides, including talking points for each slide.",
					Params:       Params{Chat: &ChatParams{MaxTokens: 1200}},
					Dependencies: []string{"Detailed Analysis"},
				},
				{
					Type:         StepImage,
					Title:        "Title Slide Graphics",
					Prompt:       "Design professional graphics suitable for presentation title slides",
					Params:       Params{Image: &ImageParams{Style: "presentation", Size: "1024x576"}},
					Dependencies: []string{"Presentation Outline"},
				},
			},
		},
	}
}
