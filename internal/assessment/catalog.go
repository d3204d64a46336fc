// AngelaMos | 2026
// catalog.go

package assessment

const (
	ToolValueLantern = "value-lantern"
	ToolConcordance  = "concordance"
)

// Prompt is one reflective question of the Value Lantern.
type Prompt struct {
	Key         string `json:"key"`
	Emoji       string `json:"emoji"`
	Label       string `json:"label"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Regulation is a motivation type from self-determination theory.
type Regulation string

const (
	Intrinsic   Regulation = "intrinsic"
	Identified  Regulation = "identified"
	Introjected Regulation = "introjected"
	External    Regulation = "external"
)

// Item is one 1-7 Likert statement of the Self-Concordance scale.
type Item struct {
	ID   string     `json:"id"`
	Text string     `json:"text"`
	Type Regulation `json:"type"`
}

const (
	LikertMin = 1
	LikertMax = 7
)

var lanternPrompts = []Prompt{
	{
		Key:         "flame",
		Emoji:       "🔥",
		Label:       "Flame",
		Title:       "What sets you on fire?",
		Description: "Recall moments when you felt fully alive. What were you doing and which values were you expressing?",
	},
	{
		Key:         "protection",
		Emoji:       "🛡️",
		Label:       "Protection",
		Title:       "What do you protect above all else?",
		Description: "Which lines will you not cross, even at a personal cost?",
	},
	{
		Key:         "handle",
		Emoji:       "🤝",
		Label:       "Handle",
		Title:       "What do you handle with great care?",
		Description: "What do you treat as precious and fragile?",
	},
	{
		Key:         "light",
		Emoji:       "💡",
		Label:       "Light",
		Title:       "What do you want to illuminate?",
		Description: "If you could shine a light on one dark corner of the world, which would it be?",
	},
}

var concordanceItems = []Item{
	{ID: "q1", Type: External, Text: "I do this to avoid being scolded or criticised by others."},
	{ID: "q2", Type: Identified, Text: "I do this because I believe it is important and worthwhile to me."},
	{ID: "q3", Type: Introjected, Text: "I do this because I would feel guilty or ashamed if I did not."},
	{ID: "q4", Type: Intrinsic, Text: "I do this because it is genuinely fun and interesting."},
	{ID: "q5", Type: External, Text: "I do this because someone tells me I have to."},
	{ID: "q6", Type: Identified, Text: "I do this because it fits the goals and vision I have for my life."},
	{ID: "q7", Type: Introjected, Text: "I do this because of a voice in my head that blames me otherwise."},
	{ID: "q8", Type: Intrinsic, Text: "I do this because I get naturally absorbed and excited while doing it."},
}

func Prompts() []Prompt {
	return append([]Prompt(nil), lanternPrompts...)
}

func Items() []Item {
	return append([]Item(nil), concordanceItems...)
}

// Catalog describes the questions of a tool.
type Catalog struct {
	Tool      string   `json:"tool"`
	Prompts   []Prompt `json:"prompts,omitempty"`
	Items     []Item   `json:"items,omitempty"`
	ScaleMin  int      `json:"scale_min,omitempty"`
	ScaleMax  int      `json:"scale_max,omitempty"`
	MaxValues int      `json:"max_values,omitempty"`
}

func CatalogFor(tool string) (*Catalog, bool) {
	switch tool {
	case ToolValueLantern:
		return &Catalog{Tool: tool, Prompts: Prompts(), MaxValues: MaxValues}, true
	case ToolConcordance:
		return &Catalog{Tool: tool, Items: Items(), ScaleMin: LikertMin, ScaleMax: LikertMax}, true
	default:
		return nil, false
	}
}
