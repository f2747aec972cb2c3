package models

// Static category labels per language. Categories are a small fixed set, so
// these never go through the translation provider.
var categoryLabels = map[string]map[string]string{
	"Paintings": {
		"cs": "Obrazy", "ru": "Картины", "de": "Gemälde", "es": "Pinturas",
		"fr": "Peintures", "zh": "绘画", "pt": "Pinturas", "hi": "चित्रकारी", "ja": "絵画",
	},
	"Jewelry": {
		"cs": "Šperky", "ru": "Ювелирные изделия", "de": "Schmuck", "es": "Joyería",
		"fr": "Bijoux", "zh": "珠宝", "pt": "Joias", "hi": "आभूषण", "ja": "ジュエリー",
	},
	"Watches": {
		"cs": "Hodinky", "ru": "Часы", "de": "Uhren", "es": "Relojes",
		"fr": "Montres", "zh": "腕表", "pt": "Relógios", "hi": "घड़ियां", "ja": "時計",
	},
	"Statues": {
		"cs": "Sochy", "ru": "Статуи", "de": "Statuen", "es": "Estatuas",
		"fr": "Statues", "zh": "雕像", "pt": "Estátuas", "hi": "मूर्तियां", "ja": "彫像",
	},
	"Other": {
		"cs": "Ostatní", "ru": "Другое", "de": "Andere", "es": "Otros",
		"fr": "Autre", "zh": "其他", "pt": "Outros", "hi": "अन्य", "ja": "その他",
	},
}

// CategoryLabel returns the display name of a category in the given language,
// falling back to the English name.
func CategoryLabel(category CollectionCategory, lang string) string {
	name := category.String()
	if lang == "en" {
		return name
	}
	if byLang, ok := categoryLabels[name]; ok {
		if label, ok := byLang[lang]; ok {
			return label
		}
	}
	return name
}
