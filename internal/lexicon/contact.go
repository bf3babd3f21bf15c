package lexicon

// EmailDomains are reserved or obviously fake domains.
var EmailDomains = []string{"example.com", "example.co.jp", "test.jp", "sample.ne.jp", "mail.com"}

// MobilePrefixes are the carrier prefixes of Japanese mobile numbers.
var MobilePrefixes = []string{"090", "080", "070"}

// LandlineAreaCodes covers Tokyo, Osaka, Nagoya and Fukuoka.
var LandlineAreaCodes = []string{"03", "06", "052", "092"}

// GenericText fills free-text controls that match no rule.
const GenericText = "サンプルテキスト"
