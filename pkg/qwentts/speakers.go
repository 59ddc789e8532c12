package qwentts

// SpeakerInfo describes one preset voice of the custom-voice model.
type SpeakerInfo struct {
	Name           string `json:"name"`
	Description    string `json:"description"`
	NativeLanguage string `json:"native_language"`
}

// Speakers is the catalogue of preset speakers the custom-voice model ships
// with. The server reports the same list via ListSpeakers; this copy lets
// callers validate input without a round trip.
var Speakers = []SpeakerInfo{
	{Name: "Vivian", Description: "Bright, slightly edgy young female voice", NativeLanguage: "Chinese"},
	{Name: "Serena", Description: "Warm, gentle young female voice", NativeLanguage: "Chinese"},
	{Name: "Uncle_Fu", Description: "Seasoned male voice with a low, mellow timbre", NativeLanguage: "Chinese"},
	{Name: "Dylan", Description: "Youthful Beijing male voice, clear and natural", NativeLanguage: "Chinese"},
	{Name: "Eric", Description: "Lively Chengdu male voice with husky brightness", NativeLanguage: "Chinese"},
	{Name: "Ryan", Description: "Dynamic male voice with strong rhythmic drive", NativeLanguage: "English"},
	{Name: "Aiden", Description: "Sunny American male voice with clear midrange", NativeLanguage: "English"},
	{Name: "Ono_Anna", Description: "Playful Japanese female voice, light and nimble", NativeLanguage: "Japanese"},
	{Name: "Sohee", Description: "Warm Korean female voice with rich emotion", NativeLanguage: "Korean"},
}

// SupportedLanguages lists the language names the generation endpoints
// accept, including the LanguageAuto sentinel.
var SupportedLanguages = []string{
	"Auto",
	"Chinese",
	"English",
	"Japanese",
	"Korean",
	"German",
	"French",
	"Russian",
	"Portuguese",
	"Spanish",
	"Italian",
}

// ValidSpeaker reports whether name matches a known preset speaker.
func ValidSpeaker(name string) bool {
	for _, s := range Speakers {
		if s.Name == name {
			return true
		}
	}
	return false
}
