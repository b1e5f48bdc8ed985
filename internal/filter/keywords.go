package filter

import (
	"regexp"
)

var (
	phoneRegex = regexp.MustCompile(`(\+?1[\s.-]?)?\(?\b\d{3}\)?[\s.-]?\d{3}[\s.-]?\d{4}\b`)
	emailRegex = regexp.MustCompile(`(?i)\b[a-z0-9._%+-]+@[a-z0-9.-]+\.[a-z]{2,}\b`)
	urlRegex   = regexp.MustCompile(`(?i)(\bhttps?://|\bwww\.|\b[a-z0-9-]+\.(com|net|org|biz|us)\b)`)
	//legal-entity suffix as a whole word
	companyRegex = regexp.MustCompile(`(?i)\b(inc|llc|corp)\b`)

	acronymRegex   = regexp.MustCompile(`^[A-Z]{2,5}$`)
	titleCaseRegex = regexp.MustCompile(`^[A-Z][a-z]+(-[A-Za-z][a-z]*)*$`)
)

// DefaultBlocklist holds navigational, legal and marketing phrases seen on dealer sites
var DefaultBlocklist = []string{
	"apply now",
	"apply today",
	"apply online",
	"click here",
	"learn more",
	"read more",
	"view all",
	"view details",
	"see all",
	"contact us",
	"about us",
	"our story",
	"our history",
	"our locations",
	"privacy policy",
	"terms of use",
	"terms of service",
	"terms and conditions",
	"cookie",
	"all rights reserved",
	"copyright",
	"accessibility",
	"site map",
	"sitemap",
	"skip to",
	"sign in",
	"sign up",
	"log in",
	"newsletter",
	"subscribe",
	"follow us",
	"powered by",
	"store hours",
	"hours of operation",
	"get directions",
	"request a quote",
	"shop now",
	"gift card",
	"customer service",
	"equal opportunity employer",
	"job alerts",
	"search jobs",
	"no current openings",
	"no openings",
	"check back",
	"now hiring",
	"join our team",
	"employment application",
	"submit your resume",
	"upload resume",
}
