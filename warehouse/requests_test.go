package warehouse

import (
	"slices"
	"testing"

	"github.com/labvotodev-ia/labvoto-back/apperrors"
)

func assertValidationError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected validation error, got nil")
	}
	if kind := apperrors.KindOf(err); kind != apperrors.KindValidation {
		t.Fatalf("expected validation error, got %v: %v", kind, err)
	}
}

func TestCandidateSearchRejectsShortTerms(t *testing.T) {
	for _, term := range []string{"", "a", " a ", "  "} {
		search := CandidateSearch{Term: term, Limit: 10}
		assertValidationError(t, search.Validate())
	}
}

func TestCandidateSearchTrimsTerm(t *testing.T) {
	search := CandidateSearch{Term: "  silva  ", Limit: 10}
	if err := search.Validate(); err != nil {
		t.Fatal(err)
	}
	if search.Term != "silva" {
		t.Fatalf("expected trimmed term 'silva', got '%s'", search.Term)
	}
}

func TestCandidateSearchClampsLimit(t *testing.T) {
	testCases := []struct {
		requested int
		expected  int
	}{
		{requested: 0, expected: 1},
		{requested: -5, expected: 1},
		{requested: 1, expected: 1},
		{requested: 100, expected: 100},
		{requested: 500, expected: 500},
		{requested: 10000, expected: 500},
	}

	for _, testCase := range testCases {
		search := CandidateSearch{Term: "silva", Limit: testCase.requested}
		if err := search.Validate(); err != nil {
			t.Fatal(err)
		}
		if search.Limit != testCase.expected {
			t.Fatalf(
				"expected limit %d to clamp to %d, got %d",
				testCase.requested, testCase.expected, search.Limit,
			)
		}
	}
}

func TestElectedSeatsValidation(t *testing.T) {
	request := ElectedSeatsByParty{Party: "", Scope: ScopeNacional}
	assertValidationError(t, request.Validate())

	request = ElectedSeatsByParty{Party: "PL", Scope: Scope(99)}
	assertValidationError(t, request.Validate())

	request = ElectedSeatsByParty{Party: "PL", Scope: ScopeEstadual}
	assertValidationError(t, request.Validate())

	request = ElectedSeatsByParty{Party: "PL", Scope: ScopeMunicipal, State: "SP"}
	assertValidationError(t, request.Validate())

	request = ElectedSeatsByParty{
		Party: "PL", Scope: ScopeMunicipal, State: "sp", Municipality: "Campinas",
	}
	if err := request.Validate(); err != nil {
		t.Fatal(err)
	}
	if request.State != "SP" {
		t.Fatalf("expected state normalized to 'SP', got '%s'", request.State)
	}
}

func TestPartyCaseNormalization(t *testing.T) {
	lower := ElectedSeatsByParty{Party: "pl", Scope: ScopeNacional}
	upper := ElectedSeatsByParty{Party: "PL", Scope: ScopeNacional}
	if err := lower.Validate(); err != nil {
		t.Fatal(err)
	}
	if err := upper.Validate(); err != nil {
		t.Fatal(err)
	}
	if lower.Party != upper.Party {
		t.Fatalf("expected identical normalized parties, got '%s' and '%s'", lower.Party, upper.Party)
	}
}

func TestPartyVoteShareDefaults(t *testing.T) {
	request := PartyVoteShare{Party: "novo", State: "rs", Office: "Deputado Federal"}
	if err := request.Validate(); err != nil {
		t.Fatal(err)
	}

	if request.Year != DefaultElectionYear {
		t.Fatalf("expected default year %d, got %d", DefaultElectionYear, request.Year)
	}
	if !slices.Equal(request.Rounds, []int{1, 2}) {
		t.Fatalf("expected default rounds [1 2], got %v", request.Rounds)
	}
	if request.Party != "NOVO" || request.State != "RS" {
		t.Fatalf("expected upper-cased party/state, got '%s'/'%s'", request.Party, request.State)
	}
}

func TestPartyVoteShareValidation(t *testing.T) {
	request := PartyVoteShare{Party: "NOVO", State: "RS", Office: "Vereador", Year: 1998}
	assertValidationError(t, request.Validate())

	request = PartyVoteShare{Party: "NOVO", State: "RS", Office: "Vereador", Rounds: []int{3}}
	assertValidationError(t, request.Validate())

	request = PartyVoteShare{Party: "NOVO", State: "", Office: "Vereador"}
	assertValidationError(t, request.Validate())

	request = PartyVoteShare{
		Party: "NOVO", State: "RS", Office: "Vereador", Rounds: []int{2, 1, 2},
	}
	if err := request.Validate(); err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(request.Rounds, []int{1, 2}) {
		t.Fatalf("expected deduplicated sorted rounds [1 2], got %v", request.Rounds)
	}
}

func TestFinanceParamsValidation(t *testing.T) {
	valid := CostPerVote{
		Years:   []int{2022},
		Offices: []string{"Deputado Federal"},
		States:  []string{"sp", "rj"},
		Party:   "pl",
	}
	if err := valid.Validate(); err != nil {
		t.Fatal(err)
	}
	if valid.Party != "PL" {
		t.Fatalf("expected upper-cased party, got '%s'", valid.Party)
	}
	if !slices.Equal(valid.States, []string{"SP", "RJ"}) {
		t.Fatalf("expected upper-cased states, got %v", valid.States)
	}

	missing := []CostPerVote{
		{Offices: []string{"Vereador"}, States: []string{"SP"}, Party: "PL"},
		{Years: []int{2022}, States: []string{"SP"}, Party: "PL"},
		{Years: []int{2022}, Offices: []string{"Vereador"}, Party: "PL"},
		{Years: []int{2022}, Offices: []string{"Vereador"}, States: []string{"SP"}},
	}
	for _, request := range missing {
		assertValidationError(t, request.Validate())
	}

	fundRequest := PublicFundDistribution{Years: []int{2022}, Offices: []string{"Vereador"}}
	assertValidationError(t, fundRequest.Validate())
}

func TestParseScope(t *testing.T) {
	testCases := []struct {
		input    string
		expected Scope
	}{
		{"nacional", ScopeNacional},
		{"Estadual", ScopeEstadual},
		{"MUNICIPAL", ScopeMunicipal},
	}
	for _, testCase := range testCases {
		scope, err := ParseScope(testCase.input)
		if err != nil {
			t.Fatal(err)
		}
		if scope != testCase.expected {
			t.Fatalf("expected scope %v for '%s', got %v", testCase.expected, testCase.input, scope)
		}
	}

	if _, err := ParseScope("federal"); err == nil {
		t.Fatal("expected error for unknown scope")
	}
}
