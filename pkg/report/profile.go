package report

import (
	"fmt"
	"strings"

	"github.com/muesli/reflow/wordwrap"

	"github.com/matzehuels/heritage/pkg/family"
)

// ProfileWidth is the column the biography wraps at.
const ProfileWidth = 80

// BuildMemberProfile renders a single record.
func BuildMemberProfile(m family.Member, opts ...Option) string {
	cfg := newConfig(opts)
	var b strings.Builder
	title := fmt.Sprintf("Member Profile: %s (#%d)", m.Name, m.SerNo)
	b.WriteString(title + "\n")
	b.WriteString(strings.Repeat("=", len(title)) + "\n\n")

	section(&b, "Basic Info")
	field(&b, "Name", m.Name)
	field(&b, "Serial No", fmt.Sprint(m.SerNo))
	field(&b, "Gender", string(m.EffectiveGender()))
	field(&b, "Vansh", m.Vansh)
	field(&b, "Level", fmt.Sprint(m.Level))
	field(&b, "Date of Birth", m.DateOfBirth)
	field(&b, "Occupation", m.Occupation)
	field(&b, "Place", m.Place)
	field(&b, "Sons/Daughters", fmt.Sprint(m.SonDaughterCount))
	b.WriteString("\n")

	section(&b, "Family Info")
	field(&b, "Spouse", spouseLabel(m, cfg.spouse))
	b.WriteString("\n")

	section(&b, "Biography")
	if bio := strings.TrimSpace(m.Biography); bio != "" {
		b.WriteString(wordwrap.String(bio, ProfileWidth))
		b.WriteString("\n")
	} else {
		b.WriteString("-\n")
	}
	return b.String()
}

func spouseLabel(m family.Member, spouse *family.Member) string {
	switch {
	case spouse != nil:
		return fmt.Sprintf("%s (#%d)", spouse.Name, spouse.SerNo)
	case m.Spouse == nil:
		return ""
	case m.Spouse.SerNo != 0:
		return fmt.Sprintf("%s (#%d)", m.Spouse.Name, m.Spouse.SerNo)
	default:
		return m.Spouse.Name
	}
}

func section(b *strings.Builder, name string) {
	b.WriteString(name + "\n")
	b.WriteString(strings.Repeat("-", len(name)) + "\n")
}

func field(b *strings.Builder, label, value string) {
	if value == "" {
		value = "-"
	}
	fmt.Fprintf(b, "%-15s %s\n", label+":", value)
}
