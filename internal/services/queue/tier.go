package queue

import "strings"

// Tier é a faixa de habilidade em que o jogador pede pareamento.
type Tier int

const (
	Novice Tier = iota
	Intermediate
	Advanced
)

// Tiers lista todas as faixas, da mais baixa para a mais alta.
var Tiers = []Tier{Novice, Intermediate, Advanced}

var tierNames = map[Tier]string{
	Novice:       "novice",
	Intermediate: "intermediate",
	Advanced:     "advanced",
}

func (t Tier) String() string {
	if name, ok := tierNames[t]; ok {
		return name
	}
	return tierNames[Novice]
}

// MarshalText faz o tier aparecer pelo nome no JSON.
func (t Tier) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// ParseTier converte o nome vindo do cliente. Qualquer valor desconhecido,
// inclusive vazio, cai na faixa mais baixa.
func ParseTier(s string) Tier {
	name := strings.ToLower(strings.TrimSpace(s))
	for tier, n := range tierNames {
		if n == name {
			return tier
		}
	}
	return Novice
}

// TierNames devolve os nomes na ordem de Tiers.
func TierNames() []string {
	names := make([]string, 0, len(Tiers))
	for _, t := range Tiers {
		names = append(names, t.String())
	}
	return names
}
