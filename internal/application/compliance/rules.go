package compliance

// rule is one jurisdiction-specific requirement. Required rules produce
// violations when their keywords are absent; optional rules only produce
// warnings.
type rule struct {
	ID          string
	Name        string
	Description string
	Severity    string
	Keywords    []string
	Required    bool
}

// jurisdictionRules groups the rules under the legal framework they come
// from.
type jurisdictionRules struct {
	Framework string
	Rules     []rule
}

// Severity labels used in rule tables and rollups.
const (
	severityCritical = "critical"
	severityHigh     = "high"
	severityMedium   = "medium"
)

// complianceRules is the static rule database, keyed by jurisdiction code.
var complianceRules = map[string]jurisdictionRules{
	"US": {
		Framework: "US Securities Law",
		Rules: []rule{
			{
				ID:          "US-001",
				Name:        "Accredited Investor Verification",
				Description: "Must verify investor accreditation status",
				Severity:    severityCritical,
				Keywords:    []string{"accredited investor", "verification", "net worth"},
				Required:    true,
			},
			{
				ID:          "US-002",
				Name:        "Blue Sky Laws Compliance",
				Description: "State securities laws compliance",
				Severity:    severityHigh,
				Keywords:    []string{"state securities", "registration", "exemption"},
				Required:    true,
			},
			{
				ID:          "US-003",
				Name:        "Right of First Refusal",
				Description: "ROFR clauses must be clearly defined",
				Severity:    severityMedium,
				Keywords:    []string{"right of first refusal", "rofr", "transfer restrictions"},
				Required:    false,
			},
		},
	},
	"EU": {
		Framework: "GDPR & EU Company Law",
		Rules: []rule{
			{
				ID:          "EU-001",
				Name:        "GDPR Data Protection",
				Description: "Data processing and privacy requirements",
				Severity:    severityCritical,
				Keywords:    []string{"data protection", "privacy", "gdpr", "personal data"},
				Required:    true,
			},
			{
				ID:          "EU-002",
				Name:        "Shareholder Rights Directive",
				Description: "Shareholder voting and information rights",
				Severity:    severityHigh,
				Keywords:    []string{"shareholder rights", "voting", "information rights"},
				Required:    true,
			},
			{
				ID:          "EU-003",
				Name:        "Cross-Border Investment",
				Description: "Cross-border investment regulations",
				Severity:    severityMedium,
				Keywords:    []string{"cross-border", "foreign investment", "regulatory"},
				Required:    false,
			},
		},
	},
	"UK": {
		Framework: "Companies Act 2006",
		Rules: []rule{
			{
				ID:          "UK-001",
				Name:        "Director Duties",
				Description: "Director fiduciary duties and conflicts",
				Severity:    severityHigh,
				Keywords:    []string{"director", "fiduciary", "duty", "conflict of interest"},
				Required:    true,
			},
			{
				ID:          "UK-002",
				Name:        "Financial Promotion Rules",
				Description: "FCA financial promotion requirements",
				Severity:    severityHigh,
				Keywords:    []string{"financial promotion", "fca", "authorized person"},
				Required:    true,
			},
			{
				ID:          "UK-003",
				Name:        "Pre-emption Rights",
				Description: "Statutory pre-emption rights on share issues",
				Severity:    severityMedium,
				Keywords:    []string{"pre-emption", "share issue", "existing shareholders"},
				Required:    true,
			},
		},
	},
	"India": {
		Framework: "Companies Act 2013",
		Rules: []rule{
			{
				ID:          "IN-001",
				Name:        "Foreign Investment Limits",
				Description: "FDI sector limits and approval requirements",
				Severity:    severityCritical,
				Keywords:    []string{"foreign investment", "fdi", "fipb", "rbi approval"},
				Required:    true,
			},
			{
				ID:          "IN-002",
				Name:        "Related Party Transactions",
				Description: "RPT disclosure and approval requirements",
				Severity:    severityHigh,
				Keywords:    []string{"related party", "rpt", "disclosure", "approval"},
				Required:    true,
			},
			{
				ID:          "IN-003",
				Name:        "FEMA Compliance",
				Description: "Foreign Exchange Management Act compliance",
				Severity:    severityHigh,
				Keywords:    []string{"fema", "foreign exchange", "pricing guidelines"},
				Required:    true,
			},
		},
	},
	"Singapore": {
		Framework: "Companies Act & Securities Act",
		Rules: []rule{
			{
				ID:          "SG-001",
				Name:        "Prospectus Requirements",
				Description: "Exemptions from prospectus requirements",
				Severity:    severityCritical,
				Keywords:    []string{"prospectus", "exemption", "offer information"},
				Required:    true,
			},
			{
				ID:          "SG-002",
				Name:        "Director Obligations",
				Description: "Director statutory duties and liabilities",
				Severity:    severityHigh,
				Keywords:    []string{"director obligations", "statutory duties", "acra"},
				Required:    true,
			},
			{
				ID:          "SG-003",
				Name:        "Nominee Shareholders",
				Description: "Nominee arrangements and beneficial ownership",
				Severity:    severityMedium,
				Keywords:    []string{"nominee", "beneficial owner", "transparency"},
				Required:    false,
			},
		},
	},
}

// fixTemplates carries model clause language for the most common required
// rules. Violations without a template fall back to a generic placeholder.
var fixTemplates = map[string]string{
	"US-001": "The parties acknowledge that the investor is an 'accredited investor' as defined in Rule 501 of Regulation D under the Securities Act of 1933.",
	"US-002": "This offering is made in reliance on exemptions from registration under state securities laws.",
	"EU-001": "The parties agree to comply with GDPR requirements for data processing and protection of personal information.",
	"UK-001": "Directors shall act in accordance with their fiduciary duties as set forth in the Companies Act 2006.",
	"IN-001": "This investment complies with Foreign Direct Investment (FDI) regulations and sectoral caps as prescribed by DPIIT.",
	"SG-001": "This offering is made pursuant to an exemption from the prospectus requirements under the Securities and Futures Act.",
}

// SupportedJurisdictions lists the jurisdiction codes with rule tables.
func SupportedJurisdictions() []string {
	return []string{"US", "EU", "UK", "India", "Singapore"}
}
