// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package diva

import (
	"fmt"
	"net/url"
	"strings"
)

// PIDURL returns the portal record page for a PID. Bare numeric PIDs, as the
// export delivers them, get the "diva2:" prefix the portal expects.
func PIDURL(portal, pid string) string {
	pid = strings.TrimSpace(pid)
	if pid == "" {
		return ""
	}
	if isDigits(pid) {
		pid = "diva2:" + pid
	}
	return fmt.Sprintf("https://%s.diva-portal.org/smash/record.jsf?pid=%s", portal, url.QueryEscape(pid))
}

// DOIURL returns the doi.org resolver link, or "" for an empty DOI.
func DOIURL(doi string) string {
	doi = strings.TrimSpace(doi)
	if doi == "" {
		return ""
	}
	return "https://doi.org/" + doi
}

// ISIURL returns the Web of Science gateway link for an ISI accession number.
func ISIURL(isi string) string {
	isi = strings.TrimSpace(isi)
	if isi == "" {
		return ""
	}
	return "https://gateway.webofknowledge.com/api/gateway" +
		"?GWVersion=2&SrcAuth=Name&SrcApp=sfx&DestApp=WOS" +
		"&DestLinkType=FullRecord&KeyUT=" + url.QueryEscape(isi)
}

// ScopusURL returns the Scopus record display link for an EID.
func ScopusURL(eid string) string {
	eid = strings.TrimSpace(eid)
	if eid == "" {
		return ""
	}
	return "https://www.scopus.com/record/display.url?origin=inward&partnerID=40&eid=" + eid
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}
