// seehuhn.de/go/otfea - a compiler for the OpenType Feature File language
// Copyright (C) 2022  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package compile

import (
	"strings"

	"golang.org/x/text/language"
)

// otScriptToBCP47 maps a handful of common OpenType script tags to the
// ISO 15924 script subtag a BCP 47 language.Tag carries, so that a
// `languagesystem` declaration can be matched against a runtime request
// expressed as an ordinary language tag (e.g. "en", "ar-EG").
var otScriptToBCP47 = map[string]language.Tag{
	"latn": language.MustParse("und-Latn"),
	"grek": language.MustParse("und-Grek"),
	"cyrl": language.MustParse("und-Cyrl"),
	"arab": language.MustParse("und-Arab"),
	"hebr": language.MustParse("und-Hebr"),
	"deva": language.MustParse("und-Deva"),
	"thai": language.MustParse("und-Thai"),
	"hang": language.MustParse("und-Hang"),
	"kana": language.MustParse("und-Jpan"),
	"hani": language.MustParse("und-Hani"),
}

// otLanguageToBCP47 maps the handful of OpenType 3-letter language tags
// most commonly seen in `languagesystem` statements to the base
// language subtag of a BCP 47 tag.
var otLanguageToBCP47 = map[string]string{
	"ENG": "en", "FRA": "fr", "DEU": "de", "ESP": "es", "ITA": "it",
	"NLD": "nl", "PTG": "pt", "RUS": "ru", "JAN": "ja", "ZHS": "zh",
	"ZHT": "zh", "KOR": "ko", "ARA": "ar", "HEB": "he", "ELL": "el",
}

// languageSystemTag builds the best-effort BCP 47 tag corresponding to a
// declared (script, language) OpenType language system, for use as a
// candidate in a [language.Matcher]. Scripts or languages this package
// does not know map to the undetermined script/language, which the
// matcher still ranks below a real match.
func languageSystemTag(script, lang string) language.Tag {
	base := otScriptToBCP47[strings.ToLower(script)]
	if l, ok := otLanguageToBCP47[strings.ToUpper(strings.TrimRight(lang, " "))]; ok {
		if combined, err := language.Compose(base, language.MustParse(l)); err == nil {
			return combined
		}
	}
	return base
}

// MatchLanguageSystem picks the declared `languagesystem` whose script
// and language best match a BCP 47 language preference, the way a text
// shaper selects which OpenType script/language-system pair to activate
// for a run of text. Only declared systems are candidates: a preference
// with no closer match resolves to the first declared languagesystem,
// and DFLT/dflt is returned only when none was declared.
func (c *Compilation) MatchLanguageSystem(pref language.Tag) (script, lang string) {
	if len(c.LanguageSystems) == 0 {
		return "DFLT", "dflt"
	}

	tags := make([]language.Tag, len(c.LanguageSystems))
	for i, ls := range c.LanguageSystems {
		tags[i] = languageSystemTag(ls.Script, ls.Language)
	}

	matcher := language.NewMatcher(tags)
	_, index, _ := matcher.Match(pref)
	best := c.LanguageSystems[index]
	return best.Script, best.Language
}
