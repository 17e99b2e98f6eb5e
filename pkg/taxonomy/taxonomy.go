package taxonomy

// Category keys recognized by the moderation pipeline. The set is fixed:
// client agents and the supervisor dashboard both key their UI copy off it.
const (
	ExplicitContent = "explicit_content"
	Violence        = "violence"
	HateSpeech      = "hate_speech"
	SelfHarm        = "self_harm"
	SubstanceAbuse  = "substance_abuse"
	Gambling        = "gambling"
	Cyberbullying   = "cyberbullying"
	Scam            = "scam"
)

// Entry holds the human-facing metadata for one category.
type Entry struct {
	Key         string `json:"key"`
	Title       string `json:"title"`
	Explanation string `json:"explanation"`
	Guidance    string `json:"guidance"`
}

var entries = map[string]Entry{
	ExplicitContent: {
		Key:         ExplicitContent,
		Title:       "Explicit Content",
		Explanation: "This page contains sexual or pornographic material.",
		Guidance:    "Close the page and talk with your child about safe browsing habits.",
	},
	Violence: {
		Key:         Violence,
		Title:       "Violent Content",
		Explanation: "This page contains graphic violence or gore.",
		Guidance:    "Review the page together and discuss why this content can be disturbing.",
	},
	HateSpeech: {
		Key:         HateSpeech,
		Title:       "Hate Speech",
		Explanation: "This page contains content that attacks people based on identity.",
		Guidance:    "Talk about respectful online behavior and consider blocking the site.",
	},
	SelfHarm: {
		Key:         SelfHarm,
		Title:       "Self-Harm Content",
		Explanation: "This page discusses or encourages self-harm or suicide.",
		Guidance:    "Check in with your child. If you are concerned, contact a crisis line.",
	},
	SubstanceAbuse: {
		Key:         SubstanceAbuse,
		Title:       "Drugs & Alcohol",
		Explanation: "This page promotes drug, alcohol, or tobacco use.",
		Guidance:    "Use this as an opening to discuss substance use honestly.",
	},
	Gambling: {
		Key:         Gambling,
		Title:       "Gambling",
		Explanation: "This page offers or promotes online gambling.",
		Guidance:    "Gambling sites often target minors; consider blocking the domain.",
	},
	Cyberbullying: {
		Key:         Cyberbullying,
		Title:       "Bullying or Harassment",
		Explanation: "This page contains bullying, harassment, or targeted abuse.",
		Guidance:    "Ask your child whether they or someone they know is involved.",
	},
	Scam: {
		Key:         Scam,
		Title:       "Scam or Phishing",
		Explanation: "This page appears designed to steal information or money.",
		Guidance:    "Do not enter any personal details and close the page.",
	},
}

var defaultEntry = Entry{
	Key:         "flagged_by_system",
	Title:       "Content Flagged",
	Explanation: "This page was flagged by the safety system.",
	Guidance:    "Review the page before allowing access.",
}

// Lookup returns the metadata for key, falling back to a generic entry for
// keys outside the taxonomy so callers always get presentable copy.
func Lookup(key string) Entry {
	if e, ok := entries[key]; ok {
		return e
	}
	return defaultEntry
}

// IsKnown reports whether key is a taxonomy category.
func IsKnown(key string) bool {
	_, ok := entries[key]
	return ok
}

// Keys returns all taxonomy category keys.
func Keys() []string {
	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	return keys
}
