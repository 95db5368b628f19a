package transform

import "regexp"

var externalURLPattern = regexp.MustCompile(`http://ddr\.densho\.org/(\w+)/(\w+)/(\d+)/(\d+)/`)

// FixExternalURL updates primary-source external URLs still in the
// legacy slash-separated DDR format.
//
//	http://lccn.loc.gov/sn83025333          -> unchanged
//	http://ddr.densho.org/ddr-densho-67-19/ -> unchanged
//	http://ddr.densho.org/ddr/densho/67/19/ -> http://ddr.densho.org/ddr-densho-67-19/
func FixExternalURL(url string) string {
	loc := externalURLPattern.FindStringIndex(url)
	if loc == nil || loc[0] != 0 {
		return url
	}
	return externalURLPattern.ReplaceAllString(url, "http://ddr.densho.org/$1-$2-$3-$4/")
}
