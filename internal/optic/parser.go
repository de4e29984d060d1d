package optic

import (
	"github.com/hyperjump/wyvern/internal/errs"
)

type parser struct {
	toks []token
	pos  int
}

// Parse lexes and parses an optic program string per §4.D's grammar.
func Parse(src string) (*Program, error) {
	toks, err := lex(src)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	prog, err := p.parseProgram()
	if err != nil {
		return nil, err
	}
	return prog, nil
}

func (p *parser) cur() token  { return p.toks[p.pos] }
func (p *parser) advance() token {
	t := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *parser) expect(k tokenKind, what string) (token, error) {
	if p.cur().kind != k {
		return token{}, errs.New(errs.InvalidOptic, "expected %s, got %q", what, p.cur().String())
	}
	return p.advance(), nil
}

func (p *parser) expectIdent(name string) error {
	if p.cur().kind != tokIdent || p.cur().text != name {
		return errs.New(errs.InvalidOptic, "expected %q, got %q", name, p.cur().String())
	}
	p.advance()
	return nil
}

func (p *parser) parseProgram() (*Program, error) {
	prog := &Program{}
	for p.cur().kind != tokEOF {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		prog.Statements = append(prog.Statements, stmt)
		if p.cur().kind == tokSemicolon {
			p.advance()
		} else if p.cur().kind != tokEOF {
			return nil, errs.New(errs.InvalidOptic, "expected ';' or end of program, got %q", p.cur().String())
		}
	}
	return prog, nil
}

func (p *parser) parseStatement() (Statement, error) {
	if p.cur().kind != tokIdent {
		return nil, errs.New(errs.InvalidOptic, "expected statement, got %q", p.cur().String())
	}
	switch p.cur().text {
	case "DiscardNonMatching":
		p.advance()
		return &DiscardNonMatching{}, nil
	case "Like":
		return p.parseHostTarget(func(s string) Statement { return &Like{Site: s} })
	case "Dislike":
		return p.parseHostTarget(func(s string) Statement { return &Dislike{Site: s} })
	case "Block":
		return p.parseHostTarget(func(s string) Statement { return &Block{Site: s} })
	case "Ranking":
		return p.parseRankingBlock()
	case "Rule":
		return p.parseRule()
	default:
		return nil, errs.New(errs.InvalidOptic, "unknown statement %q", p.cur().text)
	}
}

// parseHostTarget parses 'Keyword ( Site ( "host" ) )' for Like/Dislike/Block.
func (p *parser) parseHostTarget(build func(string) Statement) (Statement, error) {
	p.advance() // Like/Dislike/Block
	if _, err := p.expect(tokLParen, "'('"); err != nil {
		return nil, err
	}
	if err := p.expectIdent("Site"); err != nil {
		return nil, err
	}
	if _, err := p.expect(tokLParen, "'('"); err != nil {
		return nil, err
	}
	site, err := p.expect(tokString, "string")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokRParen, "')'"); err != nil {
		return nil, err
	}
	if _, err := p.expect(tokRParen, "')'"); err != nil {
		return nil, err
	}
	return build(site.text), nil
}

func (p *parser) parseRankingBlock() (Statement, error) {
	p.advance() // Ranking
	if _, err := p.expect(tokLBrace, "'{'"); err != nil {
		return nil, err
	}
	rb := &RankingBlock{}
	for p.cur().kind != tokRBrace {
		if err := p.expectIdent("Signal"); err != nil {
			return nil, err
		}
		if _, err := p.expect(tokLParen, "'('"); err != nil {
			return nil, err
		}
		name, err := p.expect(tokString, "string")
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokRParen, "')'"); err != nil {
			return nil, err
		}
		if _, err := p.expect(tokArrow, "'=>'"); err != nil {
			return nil, err
		}
		val, err := p.expect(tokNumber, "number")
		if err != nil {
			return nil, err
		}
		rb.Coeffs = append(rb.Coeffs, RankingCoeff{Signal: name.text, Value: val.num})
		if p.cur().kind == tokSemicolon {
			p.advance()
		}
	}
	if _, err := p.expect(tokRBrace, "'}'"); err != nil {
		return nil, err
	}
	if len(rb.Coeffs) == 0 {
		return nil, errs.New(errs.InvalidOptic, "Ranking block requires at least one Signal coefficient")
	}
	return rb, nil
}

func (p *parser) parseRule() (Statement, error) {
	p.advance() // Rule
	if _, err := p.expect(tokLBrace, "'{'"); err != nil {
		return nil, err
	}

	rule := &Rule{}
	for p.cur().kind == tokIdent && p.cur().text == "Matches" {
		block, err := p.parseMatchesBlock()
		if err != nil {
			return nil, err
		}
		rule.MatchesBlocks = append(rule.MatchesBlocks, block)
	}
	if len(rule.MatchesBlocks) == 0 {
		return nil, errs.New(errs.InvalidOptic, "Rule requires at least one Matches block")
	}

	if p.cur().kind == tokComma {
		p.advance()
		if err := p.expectIdent("Action"); err != nil {
			return nil, err
		}
		if _, err := p.expect(tokLParen, "'('"); err != nil {
			return nil, err
		}
		action, err := p.parseAction()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokRParen, "')'"); err != nil {
			return nil, err
		}
		rule.Action = action
	}

	if _, err := p.expect(tokRBrace, "'}'"); err != nil {
		return nil, err
	}
	return rule, nil
}

func (p *parser) parseMatchesBlock() ([]Matching, error) {
	p.advance() // Matches
	if _, err := p.expect(tokLBrace, "'{'"); err != nil {
		return nil, err
	}
	var block []Matching
	for p.cur().kind != tokRBrace {
		m, err := p.parseMatching()
		if err != nil {
			return nil, err
		}
		block = append(block, m)
		if p.cur().kind == tokSemicolon {
			p.advance()
		}
	}
	if _, err := p.expect(tokRBrace, "'}'"); err != nil {
		return nil, err
	}
	return block, nil
}

func (p *parser) parseMatching() (Matching, error) {
	if p.cur().kind != tokIdent {
		return Matching{}, errs.New(errs.InvalidOptic, "expected a location, got %q", p.cur().String())
	}
	loc, ok := locationNames[p.cur().text]
	if !ok {
		return Matching{}, errs.New(errs.InvalidOptic, "unknown location %q", p.cur().text)
	}
	p.advance()
	if _, err := p.expect(tokLParen, "'('"); err != nil {
		return Matching{}, err
	}
	pattern, err := p.expect(tokString, "string")
	if err != nil {
		return Matching{}, err
	}
	if _, err := p.expect(tokRParen, "')'"); err != nil {
		return Matching{}, err
	}
	return Matching{Location: loc, Pattern: pattern.text}, nil
}

var locationNames = map[string]Location{
	"Site":           LocationSite,
	"Url":            LocationURL,
	"Domain":         LocationDomain,
	"Title":          LocationTitle,
	"Description":    LocationDescription,
	"Content":        LocationContent,
	"Schema":         LocationSchema,
	"MicroformatTag": LocationMicroformatTag,
}

func (p *parser) parseAction() (*Action, error) {
	if p.cur().kind != tokIdent {
		return nil, errs.New(errs.InvalidOptic, "expected an action, got %q", p.cur().String())
	}
	switch p.cur().text {
	case "Boost":
		p.advance()
		if _, err := p.expect(tokLParen, "'('"); err != nil {
			return nil, err
		}
		v, err := p.expect(tokNumber, "number")
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokRParen, "')'"); err != nil {
			return nil, err
		}
		return &Action{Kind: ActionBoost, Value: v.num}, nil
	case "Downrank":
		p.advance()
		if _, err := p.expect(tokLParen, "'('"); err != nil {
			return nil, err
		}
		v, err := p.expect(tokNumber, "number")
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokRParen, "')'"); err != nil {
			return nil, err
		}
		return &Action{Kind: ActionDownrank, Value: v.num}, nil
	case "Discard":
		p.advance()
		return &Action{Kind: ActionDiscard}, nil
	default:
		return nil, errs.New(errs.InvalidOptic, "unknown action %q", p.cur().text)
	}
}
