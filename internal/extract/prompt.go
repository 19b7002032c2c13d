package extract

const brandExtractionPrompt = `You are a brand guidelines expert. Analyze the following content and extract ALL brand information into a structured JSON format.

Extract whatever brand-relevant information is present:
- Brand name
- Brand colors (with hex codes, names, and usage context; convert RGB values to hex when no hex is given)
- Typography (fonts, weights, usage)
- Logo guidelines (usage rules, clear space, backgrounds, every "don't")
- Voice and tone guidelines
- Imagery style guidelines
- Messaging (taglines, key messages, value propositions)

Return ONLY valid JSON (no markdown, no code blocks) with this structure:
{
  "brand_name": "Company Name",
  "description": "Brief brand description",
  "colors": {
    "primary": [{"name": "Color Name", "hex": "#FFFFFF", "usage": "When to use"}],
    "secondary": [],
    "accent": [],
    "neutral": []
  },
  "typography": {
    "primary": {"name": "Font Name", "weights": ["400", "700"], "usage": "Headers"},
    "secondary": {"name": "Font Name", "weights": ["400"], "usage": "Body text"},
    "hierarchy": {}
  },
  "logo": {
    "description": "",
    "clear_space": "",
    "min_size": "",
    "variations": [],
    "backgrounds": {"approved": [], "forbidden": []},
    "donts": []
  },
  "voice": {
    "personality": "",
    "tone": [],
    "guidelines": [],
    "vocabulary": {"use": [], "avoid": []}
  },
  "messaging": {
    "taglines": [],
    "key_messages": [],
    "value_propositions": []
  },
  "imagery": {
    "photography": "",
    "illustration": "",
    "icons": "",
    "guidelines": []
  }
}

Extract ACTUAL values from the content. Use empty arrays/strings for missing sections.

Content to analyze:
`

const colorRecoveryPrompt = `Find every color with a hex code in the following content. Convert RGB values to hex when no hex code is given. Categorize each color as primary, secondary, accent, or neutral.

Return ONLY a valid JSON array (no markdown, no code blocks):
[{"name": "Color Name", "hex": "#FFFFFF", "category": "primary"}]

Return [] if no colors are present.

Content to analyze:
`

const urlRetrievalPrompt = `Fetch and extract all brand-related content from this URL: %s. Return the raw content including colors, fonts, logo usage, voice/tone, messaging, etc. Extract specific values.`
