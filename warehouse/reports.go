package warehouse

import (
	"context"
	"log/slog"

	"github.com/labvotodev-ia/labvoto-back/apperrors"
	"hermannm.dev/devlog/log"
)

// SearchCandidates runs a case-insensitive partial match of the search term
// against the candidate and ballot names, returning up to the requested
// limit of full candidate rows. An empty match is an empty slice, not an
// error.
func (warehouse Warehouse) SearchCandidates(
	ctx context.Context,
	search CandidateSearch,
) ([]Candidate, error) {
	if err := search.Validate(); err != nil {
		return nil, err
	}

	query, params, err := buildCandidateSearchQuery(warehouse.sources, search)
	if err != nil {
		return nil, err
	}

	log.Debug("generated candidate search query", slog.String("query", query))

	rows, err := warehouse.exec.Query(ctx, query, params...)
	if err != nil {
		return nil, apperrors.Execution(err, "falha ao consultar candidatos")
	}
	defer rows.Close()

	candidates, err := scanCandidateRows(rows)
	if err != nil {
		return nil, apperrors.Execution(err, "falha ao ler resultado da busca de candidatos")
	}

	return candidates, nil
}

// ElectedSeatsByParty counts elected candidates of a party per office,
// restricted to the analysis election years and the requested geographic
// scope, ordered by seat count descending.
func (warehouse Warehouse) ElectedSeatsByParty(
	ctx context.Context,
	request ElectedSeatsByParty,
) ([]PartySeats, error) {
	if err := request.Validate(); err != nil {
		return nil, err
	}

	query, params, err := buildElectedSeatsQuery(warehouse.sources, request)
	if err != nil {
		return nil, err
	}

	log.Debug("generated seat analysis query", slog.String("query", query))

	seats := []PartySeats{}
	if err := warehouse.exec.Select(ctx, &seats, query, params...); err != nil {
		return nil, apperrors.Execution(err, "falha ao consultar análise de partido")
	}

	return seats, nil
}

// PartyVoteShare computes a party's share of the valid votes per locality
// for one election year, with null-safe ratios: a missing or zero valid-vote
// total yields null share fields, never an error.
func (warehouse Warehouse) PartyVoteShare(
	ctx context.Context,
	request PartyVoteShare,
) ([]VoteShareRow, error) {
	if err := request.Validate(); err != nil {
		return nil, err
	}

	query, params, err := buildVoteShareQuery(warehouse.sources, request)
	if err != nil {
		return nil, err
	}

	log.Debug("generated vote share query", slog.String("query", query))

	rows := []VoteShareRow{}
	if err := warehouse.exec.Select(ctx, &rows, query, params...); err != nil {
		return nil, apperrors.Execution(err, "falha ao consultar votos do partido")
	}

	return rows, nil
}

// CostPerVote relates the campaign expenses of a party's elected candidates
// to their vote totals across the general and municipal results.
func (warehouse Warehouse) CostPerVote(
	ctx context.Context,
	request CostPerVote,
) ([]CostPerVoteRow, error) {
	if err := request.Validate(); err != nil {
		return nil, err
	}

	query, params, err := buildCostPerVoteQuery(warehouse.sources, request)
	if err != nil {
		return nil, err
	}

	log.Debug("generated cost-per-vote query", slog.String("query", query))

	rows := []CostPerVoteRow{}
	if err := warehouse.exec.Select(ctx, &rows, query, params...); err != nil {
		return nil, apperrors.Execution(err, "falha ao consultar custo por voto")
	}

	return rows, nil
}

// PublicFundDistribution relates public campaign financing (party, special
// and electoral fund revenue) to vote totals for all of a party's
// candidates, elected or not.
func (warehouse Warehouse) PublicFundDistribution(
	ctx context.Context,
	request PublicFundDistribution,
) ([]PublicFundRow, error) {
	if err := request.Validate(); err != nil {
		return nil, err
	}

	query, params, err := buildPublicFundQuery(warehouse.sources, request)
	if err != nil {
		return nil, err
	}

	log.Debug("generated public fund query", slog.String("query", query))

	rows := []PublicFundRow{}
	if err := warehouse.exec.Select(ctx, &rows, query, params...); err != nil {
		return nil, apperrors.Execution(err, "falha ao consultar fundos públicos")
	}

	return rows, nil
}
