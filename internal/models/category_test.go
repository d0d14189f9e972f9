package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

type CategoryTestSuite struct {
	suite.Suite
}

func TestCategorySuite(t *testing.T) {
	suite.Run(t, new(CategoryTestSuite))
}

func (s *CategoryTestSuite) TestIsMainCategory() {
	main := &Category{Name: "groceries"}
	s.True(main.IsMainCategory())

	parentID := uuid.New()
	sub := &Category{Name: "organic", ParentCategoryID: &parentID}
	s.False(sub.IsMainCategory())
}

func (s *CategoryTestSuite) TestFullDisplayName() {
	withIcon := &Category{DisplayName: "Lebensmittel", Icon: "🛒"}
	s.Equal("🛒 Lebensmittel", withIcon.FullDisplayName())

	withoutIcon := &Category{DisplayName: "Lebensmittel"}
	s.Equal("Lebensmittel", withoutIcon.FullDisplayName())
}

func (s *CategoryTestSuite) TestKeywordList_SplitsOnAllDelimiters() {
	category := &Category{Keywords: "REWE,EDEKA;Supermarkt Markt\tKauf"}

	s.Equal([]string{"rewe", "edeka", "supermarkt", "markt", "kauf"}, category.KeywordList())
}

func (s *CategoryTestSuite) TestKeywordList_EmptyAndBlank() {
	s.Nil((&Category{Keywords: ""}).KeywordList())
	s.Nil((&Category{Keywords: "   "}).KeywordList())
}

func (s *CategoryTestSuite) TestKeywordList_DropsEmptyEntries() {
	category := &Category{Keywords: "rewe,,;;  edeka"}

	s.Equal([]string{"rewe", "edeka"}, category.KeywordList())
}

func (s *CategoryTestSuite) TestMatchesKeywords_SubstringMatch() {
	category := &Category{Keywords: "rewe,edeka"}

	s.True(category.MatchesKeywords("rewe sagt danke 44310901"))
	s.True(category.MatchesKeywords("einkauf edeka markt"))
	s.False(category.MatchesKeywords("aldi sued filiale"))
}

func (s *CategoryTestSuite) TestMatchesKeywords_ShortKeywordsIgnored() {
	// one- and two-character tokens must never match
	category := &Category{Keywords: "an,ab,x"}
	s.False(category.MatchesKeywords("an der kasse ab sofort x"))

	// three characters is the minimum matchable length
	threeChars := &Category{Keywords: "bvg"}
	s.True(threeChars.MatchesKeywords("bvg fahrschein"))
}

func (s *CategoryTestSuite) TestMatchesKeywords_LengthCountsRunes() {
	// two runes even though three bytes in UTF-8
	category := &Category{Keywords: "öl"}
	s.False(category.MatchesKeywords("öl im angebot"))

	threeRunes := &Category{Keywords: "öle"}
	s.True(threeRunes.MatchesKeywords("öle im angebot"))
}

func (s *CategoryTestSuite) TestMatchesKeywords_NoKeywords() {
	category := &Category{Keywords: ""}
	s.False(category.MatchesKeywords("rewe sagt danke"))
}
