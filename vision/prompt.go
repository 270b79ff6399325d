package vision

// analysisPrompt is the fixed prompt sent with every screenshot. The
// JSON key list must stay in sync with ParseAnalysis; when changing it,
// bump the revision marker so stored analyses can be told apart.
//
// Revision: 3 (adds functional purpose, journey stage, industry
// relevance, user tasks).
const analysisPrompt = `Analyze this website screenshot and provide a detailed UI design analysis in JSON format. Include:
1. UI Components: Identify all UI components with their type, description, purpose, and design characteristics
2. Color Palette: Extract the main colors (hex codes) and describe their usage (primary, secondary, accent, etc.)
3. Typography: Analyze font families, sizes, weights, and hierarchy
4. Layout Pattern: Identify the layout structure, grid system, and spacing patterns
5. Design Style: Categorize the overall design style (e.g., minimalist, skeuomorphic, material design)
6. Accessibility Observations: Note any accessibility considerations
7. Design Patterns: Identify common UI/UX patterns used
8. Functional Purpose: Identify what this page/screen is designed to help users accomplish
9. User Journey Stage: Identify where this screen fits in a typical user journey (e.g., onboarding, checkout, dashboard)
10. Industry Relevance: List industries where this design pattern would be most applicable
11. User Tasks: List specific user tasks this interface supports

Format the response as a JSON object with these keys:
{
  "components": [{ "id": "string", "name": "string", "description": "string", "componentType": "string", "tags": ["string"] }],
  "colorPalette": [{ "hex": "string", "usage": "string" }],
  "typography": { "headings": "string", "body": "string", "accents": "string", "hierarchy": "string" },
  "layout": { "pattern": "string", "grid": "string", "spacing": "string" },
  "designStyle": ["string"],
  "accessibilityNotes": "string",
  "designPatterns": ["string"],
  "functionalPurpose": ["string"],
  "userJourneyStage": "string",
  "industryRelevance": ["string"],
  "userTasks": ["string"],
  "suggestedTags": ["string"]
}`

// discoverPrompt is the template for industry discovery. It asks for a
// JSON object so response_format json_object can be enforced.
const discoverPrompt = `Find the top %d websites in the %s industry.
For each website, provide:
1. The full URL (including https://)
2. A brief description of what makes the design notable

Format your response as a JSON object with a "websites" array containing objects with 'url' and 'description' properties.
Example: {"websites": [{"url": "https://example.com", "description": "Notable for its minimalist design and intuitive navigation"}]}`
