package encounter

// InvulnerableDefense marks a descriptor the engine must never damage.
const InvulnerableDefense = 9999

// Descriptor is one enemy or boss as the battle engine reads it.
// Field order is the on-disk key order.
type Descriptor struct {
	Name           string            `json:"name"`
	HP             int               `json:"hp"`
	Attack         int               `json:"attack"`
	Defense        int               `json:"defense"`
	Gold           int               `json:"gold"`
	Exp            int               `json:"exp"`
	SpareThreshold int               `json:"spareThreshold"`
	Dialogue       []string          `json:"dialogue"`
	CheckText      string            `json:"checkText"`
	Sprites        map[string]Frames `json:"sprites"`
	Acts           []Act             `json:"acts"`
	AttackPatterns []Pattern         `json:"attackPatterns"`
}

func (d *Descriptor) Invulnerable() bool { return d.Defense >= InvulnerableDefense }

type Act struct {
	Name          string `json:"name" yaml:"name"`
	Effect        string `json:"effect" yaml:"effect"`
	Text          string `json:"text,omitempty" yaml:"text,omitempty"`
	MercyIncrease *int   `json:"mercyIncrease,omitempty" yaml:"mercyIncrease,omitempty"`
}

type Pattern struct {
	Name     string `json:"name" yaml:"name"`
	Duration int    `json:"duration" yaml:"duration"` // ms
	Waves    []Wave `json:"waves" yaml:"waves"`
}

// Fields lists the top-level keys the engine reads verbatim.
var Fields = []string{
	"name", "hp", "attack", "defense", "gold", "exp", "spareThreshold",
	"dialogue", "checkText", "sprites", "acts", "attackPatterns",
}

// Normalize replaces nil collections with empty ones so every documented
// field is present in the output.
func (d *Descriptor) Normalize() {
	if d.Dialogue == nil {
		d.Dialogue = []string{}
	}
	if d.Sprites == nil {
		d.Sprites = map[string]Frames{}
	}
	for k, f := range d.Sprites {
		if f == nil {
			d.Sprites[k] = Frames{}
		}
	}
	if d.Acts == nil {
		d.Acts = []Act{}
	}
	if d.AttackPatterns == nil {
		d.AttackPatterns = []Pattern{}
	}
	for i := range d.AttackPatterns {
		if d.AttackPatterns[i].Waves == nil {
			d.AttackPatterns[i].Waves = []Wave{}
		}
	}
}
