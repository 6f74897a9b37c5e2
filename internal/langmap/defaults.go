package langmap

// defaultEntries maps Slack flag short-code tokens (ISO 3166-1 alpha-2 country
// codes, plus the few legacy names Slack still ships) to the primary language
// spoken there. Flags do not map 1:1 to languages; multilingual countries get
// the language most readers would expect, and unlisted countries do not resolve.
var defaultEntries = map[string]string{
	"ad": "ca",
	"ae": "ar",
	"af": "ps",
	"al": "sq",
	"am": "hy",
	"ao": "pt",
	"ar": "es",
	"at": "de",
	"au": "en",
	"az": "az",
	"ba": "bs",
	"bd": "bn",
	"be": "nl",
	"bg": "bg",
	"bh": "ar",
	"bo": "es",
	"br": "pt",
	"by": "be",
	"ca": "en",
	"cd": "fr",
	"ch": "de",
	"cl": "es",
	"cn": "zh-CN",
	"co": "es",
	"cr": "es",
	"cu": "es",
	"cy": "el",
	"cz": "cs",
	"de": "de",
	"dk": "da",
	"do": "es",
	"dz": "ar",
	"ec": "es",
	"ee": "et",
	"eg": "ar",
	"es": "es",
	"et": "am",
	"fi": "fi",
	"fr": "fr",
	"gb": "en",
	"ge": "ka",
	"gr": "el",
	"gt": "es",
	"hk": "zh-TW",
	"hn": "es",
	"hr": "hr",
	"ht": "ht",
	"hu": "hu",
	"id": "id",
	"ie": "ga",
	"il": "iw",
	"in": "hi",
	"iq": "ar",
	"ir": "fa",
	"is": "is",
	"it": "it",
	"jo": "ar",
	"jp": "ja",
	"ke": "sw",
	"kg": "ky",
	"kh": "km",
	"kr": "ko",
	"kw": "ar",
	"kz": "kk",
	"la": "lo",
	"lb": "ar",
	"lk": "si",
	"lt": "lt",
	"lu": "lb",
	"lv": "lv",
	"ly": "ar",
	"ma": "ar",
	"md": "ro",
	"me": "sr",
	"mg": "mg",
	"mk": "mk",
	"mm": "my",
	"mn": "mn",
	"mo": "zh-TW",
	"mt": "mt",
	"mx": "es",
	"my": "ms",
	"ng": "en",
	"ni": "es",
	"nl": "nl",
	"no": "no",
	"np": "ne",
	"nz": "en",
	"om": "ar",
	"pa": "es",
	"pe": "es",
	"ph": "tl",
	"pk": "ur",
	"pl": "pl",
	"pr": "es",
	"pt": "pt",
	"py": "es",
	"qa": "ar",
	"ro": "ro",
	"rs": "sr",
	"ru": "ru",
	"sa": "ar",
	"se": "sv",
	"sg": "en",
	"si": "sl",
	"sk": "sk",
	"so": "so",
	"sv": "es",
	"sy": "ar",
	"th": "th",
	"tj": "tg",
	"tn": "ar",
	"tr": "tr",
	"tw": "zh-TW",
	"tz": "sw",
	"ua": "uk",
	"uk": "en",
	"us": "en",
	"uy": "es",
	"uz": "uz",
	"ve": "es",
	"vn": "vi",
	"ye": "ar",
	"za": "af",
}
