package egs

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dekarrin/earley"
	"github.com/dekarrin/earley/forest"
	"github.com/dekarrin/earley/grammar"
	"github.com/dekarrin/earley/internal/gramfile"
	"github.com/dekarrin/earley/internal/sentence"
	"github.com/dekarrin/earley/server/dao"
	"github.com/dekarrin/earley/server/serr"
	"github.com/google/uuid"
)

// SourceFormat is a notation that a grammar can be uploaded in.
type SourceFormat string

const (
	// FormatText is the rule notation read by grammar.Parse.
	FormatText SourceFormat = "text"

	// FormatEBNF is EBNF as read by grammar.ParseEBNF.
	FormatEBNF SourceFormat = "ebnf"

	// FormatEGF is a TOML grammar file as read by the gramfile package.
	FormatEGF SourceFormat = "egf"
)

// ParseSourceFormat parses s into a SourceFormat. The empty string is taken to
// be FormatText.
func ParseSourceFormat(s string) (SourceFormat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(FormatText):
		return FormatText, nil
	case string(FormatEBNF):
		return FormatEBNF, nil
	case string(FormatEGF):
		return FormatEGF, nil
	default:
		return "", fmt.Errorf("must be one of 'text', 'ebnf', or 'egf'")
	}
}

// CompileGrammar reads src in the given format and checks that the result is
// usable for parsing. The returned error, if non-nil, will match
// serr.ErrBadGrammar.
func CompileGrammar(format SourceFormat, src string) (grammar.Grammar, error) {
	var g grammar.Grammar
	var err error

	switch format {
	case FormatText, "":
		g, err = grammar.Parse(src)
	case FormatEBNF:
		g, err = grammar.ParseEBNF("upload", strings.NewReader(src), "")
	case FormatEGF:
		var b gramfile.Bundle
		b, err = gramfile.Unmarshal([]byte(src))
		g = b.Grammar
	default:
		return grammar.Grammar{}, serr.New(fmt.Sprintf("unknown grammar format %q", format), serr.ErrBadGrammar)
	}
	if err != nil {
		return grammar.Grammar{}, serr.New(err.Error(), serr.ErrBadGrammar)
	}

	if len(g.Rules()) < 1 {
		return grammar.Grammar{}, serr.New("grammar has no rules", serr.ErrBadGrammar)
	}
	if g.Rule(g.StartSymbol()).NonTerminal == "" {
		return grammar.Grammar{}, serr.New(fmt.Sprintf("start symbol %q has no rule", g.StartSymbol()), serr.ErrBadGrammar)
	}

	return g, nil
}

// DecodeGrammar decodes the grammar stored in g.
func DecodeGrammar(g dao.Grammar) (grammar.Grammar, error) {
	var decoded grammar.Grammar
	if err := decoded.UnmarshalBinary(g.Data); err != nil {
		return grammar.Grammar{}, fmt.Errorf("stored grammar %s is corrupt: %w", g.ID, err)
	}
	return decoded, nil
}

// CreateGrammar compiles src and stores the result under the given name as
// owned by the user with the given ID.
//
// The returned error, if non-nil, will return true for various calls to
// errors.Is depending on what caused the error. If src is not a usable
// grammar, it will match serr.ErrBadGrammar. If the name is blank or the owner
// does not exist, it will match serr.ErrBadArgument. If the owner already has
// as many grammars as their quota allows, it will match serr.ErrQuotaExceeded.
// If the error occured due to an unexpected problem with the DB, it will match
// serr.ErrDB.
func (svc Service) CreateGrammar(ctx context.Context, ownerID uuid.UUID, name string, format SourceFormat, src string) (dao.Grammar, error) {
	if strings.TrimSpace(name) == "" {
		return dao.Grammar{}, serr.New("name cannot be blank", serr.ErrBadArgument)
	}

	g, err := CompileGrammar(format, src)
	if err != nil {
		return dao.Grammar{}, err
	}

	owner, err := svc.userByID(ctx, ownerID)
	if err != nil {
		if errors.Is(err, serr.ErrNotFound) {
			return dao.Grammar{}, serr.New("owner does not exist", serr.ErrBadArgument)
		}
		return dao.Grammar{}, err
	}
	usage, err := svc.GetUsage(ctx, owner)
	if err != nil {
		return dao.Grammar{}, err
	}
	if usage.Full() {
		return dao.Grammar{}, serr.New(fmt.Sprintf("quota of %d grammar(s) reached", usage.Quota), serr.ErrQuotaExceeded)
	}

	data, err := g.MarshalBinary()
	if err != nil {
		return dao.Grammar{}, serr.New("could not encode grammar", err)
	}

	created, err := svc.DB.Grammars().Create(ctx, dao.Grammar{
		OwnerID: ownerID,
		Name:    name,
		Data:    data,
	})
	if err != nil {
		if errors.Is(err, dao.ErrConstraintViolation) {
			return dao.Grammar{}, serr.New("owner does not exist", err, serr.ErrBadArgument)
		}
		return dao.Grammar{}, serr.WrapDB("could not create grammar", err)
	}

	log.Infof("created grammar %q (%s) with %d rules", created.Name, created.ID, len(g.Rules()))
	return created, nil
}

// GetGrammar returns the stored grammar with the given ID.
//
// The returned error, if non-nil, will return true for various calls to
// errors.Is depending on what caused the error. If no grammar with that ID
// exists, it will match serr.ErrNotFound. If the ID is malformed, it will match
// serr.ErrBadArgument. If the error occured due to an unexpected problem with
// the DB, it will match serr.ErrDB.
func (svc Service) GetGrammar(ctx context.Context, id string) (dao.Grammar, error) {
	uuidID, err := uuid.Parse(id)
	if err != nil {
		return dao.Grammar{}, serr.New("ID is not valid", serr.ErrBadArgument)
	}

	g, err := svc.DB.Grammars().GetByID(ctx, uuidID)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return dao.Grammar{}, serr.ErrNotFound
		}
		return dao.Grammar{}, serr.WrapDB("could not get grammar", err)
	}

	return g, nil
}

// GetUserGrammars returns every grammar owned by the user with the given ID,
// ordered by name.
func (svc Service) GetUserGrammars(ctx context.Context, ownerID uuid.UUID) ([]dao.Grammar, error) {
	all, err := svc.DB.Grammars().GetAllByOwner(ctx, ownerID)
	if err != nil {
		return nil, serr.WrapDB("could not get grammars", err)
	}
	return all, nil
}

// DeleteGrammar deletes the grammar with the given ID and returns it as it was
// just before deletion.
//
// The returned error, if non-nil, matches the same errors as GetGrammar.
func (svc Service) DeleteGrammar(ctx context.Context, id string) (dao.Grammar, error) {
	uuidID, err := uuid.Parse(id)
	if err != nil {
		return dao.Grammar{}, serr.New("ID is not valid", serr.ErrBadArgument)
	}

	g, err := svc.DB.Grammars().Delete(ctx, uuidID)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return dao.Grammar{}, serr.ErrNotFound
		}
		return dao.Grammar{}, serr.WrapDB("could not delete grammar", err)
	}

	log.Infof("deleted grammar %q (%s)", g.Name, g.ID)
	return g, nil
}

// Parse parses a sentence with the stored grammar g. If tokens is non-empty it
// is used as-is; otherwise text is split into tokens the same way the shell
// does it. The number of trees and the work done finding them are bounded by
// the service's MaxTrees and MaxSteps.
//
// The returned error, if non-nil, will match serr.ErrBadArgument if both text
// and tokens are empty.
func (svc Service) Parse(ctx context.Context, g dao.Grammar, text string, tokens []string) (earley.Result, error) {
	if len(tokens) < 1 {
		tokens = sentence.Tokenize(text)
	}
	if len(tokens) < 1 {
		return earley.Result{}, serr.New("sentence cannot be blank", serr.ErrBadArgument)
	}

	decoded, err := DecodeGrammar(g)
	if err != nil {
		return earley.Result{}, serr.New("could not load grammar", err)
	}

	opts := []forest.Option{forest.WithLogger(log)}
	if svc.MaxTrees > 0 {
		opts = append(opts, forest.MaxTrees(svc.MaxTrees))
	}
	if svc.MaxSteps > 0 {
		opts = append(opts, forest.MaxSteps(svc.MaxSteps))
	}

	res := earley.ParseTokens(decoded, tokens, opts...)
	if res.Truncated {
		log.Warningf("parse of %q with grammar %s stopped at step limit", res.Sentence(), g.ID)
	}

	return res, nil
}
