package sponsor

// MainRankCutoff is the lowest rank that still counts as a main P-Rep.
const MainRankCutoff = 22

// Tier names for a sponsor's standing.
const (
	TierMain = "Main"
	TierSub  = "Sub"
)

// Socials holds optional profile links.
type Socials struct {
	Website  string `json:"website,omitempty" yaml:"website"`
	Twitter  string `json:"twitter,omitempty" yaml:"twitter"`
	Telegram string `json:"telegram,omitempty" yaml:"telegram"`
	Github   string `json:"github,omitempty" yaml:"github"`
	Reddit   string `json:"reddit,omitempty" yaml:"reddit"`
	Facebook string `json:"facebook,omitempty" yaml:"facebook"`
}

// Sponsor is a P-Rep profile. Projects is derived from the project table.
type Sponsor struct {
	Address  string  `json:"address" yaml:"address"`
	Name     string  `json:"name" yaml:"name"`
	Logo     string  `json:"logo,omitempty" yaml:"logo"`
	Rank     int     `json:"rank" yaml:"rank"`
	Votes    float64 `json:"votes" yaml:"votes"`
	Voters   int     `json:"voters" yaml:"voters"`
	Projects int     `json:"projects" yaml:"-"`
	Socials  Socials `json:"socials" yaml:"socials"`
}

// IsMain reports whether the sponsor ranks among the main P-Reps.
func (s Sponsor) IsMain() bool {
	return s.Rank > 0 && s.Rank <= MainRankCutoff
}

// Tier returns TierMain or TierSub.
func (s Sponsor) Tier() string {
	if s.IsMain() {
		return TierMain
	}
	return TierSub
}
