package screening

import (
	"strings"

	"golang.org/x/net/publicsuffix"
)

// Email reputation classification. The registrable domain of the address
// host decides the class: throwaway relay domains are a strong fraud marker,
// free webmail is a weak one, and anything else is presumed corporate and
// earns a small bonus.

// EmailClass is the reputation bucket of an address.
type EmailClass int

const (
	EmailUnknown EmailClass = iota
	EmailDisposable
	EmailFree
	EmailCorporate
)

var disposableDomains = map[string]bool{
	"mailinator.com":         true,
	"guerrillamail.com":      true,
	"10minutemail.com":       true,
	"tempmail.com":           true,
	"temp-mail.org":          true,
	"yopmail.com":            true,
	"trashmail.com":          true,
	"throwawaymail.com":      true,
	"getnada.com":            true,
	"maildrop.cc":            true,
	"sharklasers.com":        true,
	"dispostable.com":        true,
	"fakeinbox.com":          true,
	"mintemail.com":          true,
	"spamgourmet.com":        true,
	"mytemp.email":           true,
	"burnermail.io":          true,
	"emailondeck.com":        true,
	"mail-temporaire.fr":     true,
	"tempinbox.com":          true,
	"mohmal.com":             true,
	"anonbox.net":            true,
	"discard.email":          true,
	"mailcatch.com":          true,
	"inboxkitten.com":        true,
	"guerrillamailblock.com": true,
}

var freeDomains = map[string]bool{
	"gmail.com":      true,
	"googlemail.com": true,
	"yahoo.com":      true,
	"ymail.com":      true,
	"hotmail.com":    true,
	"outlook.com":    true,
	"live.com":       true,
	"msn.com":        true,
	"aol.com":        true,
	"icloud.com":     true,
	"me.com":         true,
	"mail.com":       true,
	"gmx.com":        true,
	"gmx.de":         true,
	"web.de":         true,
	"protonmail.com": true,
	"proton.me":      true,
	"zoho.com":       true,
	"yandex.com":     true,
	"yandex.ru":      true,
	"mail.ru":        true,
	"qq.com":         true,
	"163.com":        true,
	"126.com":        true,
}

// ClassifyEmail buckets an address by its registrable domain. Subdomain
// tricks ("foo@mx.mailinator.com") collapse onto the registered domain, so
// they classify the same as the bare domain.
func ClassifyEmail(address string) (EmailClass, string) {
	at := strings.LastIndex(address, "@")
	if at < 1 || at == len(address)-1 {
		return EmailUnknown, ""
	}
	host := strings.ToLower(strings.TrimSpace(address[at+1:]))

	domain, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		domain = host
	}

	switch {
	case disposableDomains[domain]:
		return EmailDisposable, domain
	case freeDomains[domain]:
		return EmailFree, domain
	case strings.Contains(domain, "."):
		return EmailCorporate, domain
	}
	return EmailUnknown, domain
}
