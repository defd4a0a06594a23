package services

import (
  "context"
  "fmt"
  "math"
  "math/big"
  "strings"

  "github.com/lumenlearn/lumen-backend/internal/apperr"
  "github.com/lumenlearn/lumen-backend/internal/logger"
  "github.com/lumenlearn/lumen-backend/internal/types"
)

type MathService interface {
  Solve(ctx context.Context, problem string) (*types.MathSolution, error)
}

type mathService struct {
  log *logger.Logger
}

func NewMathService(log *logger.Logger) MathService {
  return &mathService{log: log.With("service", "MathService")}
}

// Solve parses an arithmetic expression or a single-variable equation
// of degree at most two and produces worked steps ending in the answer.
func (s *mathService) Solve(ctx context.Context, problem string) (*types.MathSolution, error) {
  normalized := normalizeMath(problem)
  if normalized == "" {
    return nil, apperr.New(apperr.KindUnparsableExpression, "empty math problem")
  }

  parts := strings.Split(normalized, "=")
  if len(parts) > 2 {
    return nil, apperr.New(apperr.KindUnparsableExpression, "too many '=' signs in %q", problem)
  }

  lhs, variable, err := parsePolynomial(parts[0], "")
  if err != nil {
    return nil, apperr.Wrap(apperr.KindUnparsableExpression, err)
  }

  if len(parts) == 1 {
    if variable != "" {
      return nil, apperr.New(apperr.KindUnparsableExpression, "expression with variable %q needs an '=' to solve", variable)
    }
    return solveArithmetic(normalized, lhs)
  }

  rhs, variable, err := parsePolynomial(parts[1], variable)
  if err != nil {
    return nil, apperr.Wrap(apperr.KindUnparsableExpression, err)
  }

  // Move everything to the left: lhs - rhs = 0.
  diff := lhs.sub(rhs)
  if variable == "" {
    return nil, apperr.New(apperr.KindUnparsableExpression, "equation %q has no variable to solve for", problem)
  }

  switch diff.degree() {
  case 0:
    return nil, apperr.New(apperr.KindUnparsableExpression, "equation %q reduces to a constant statement", problem)
  case 1:
    return solveLinear(normalized, variable, diff)
  case 2:
    return solveQuadratic(normalized, variable, diff)
  default:
    return nil, apperr.New(apperr.KindUnparsableExpression, "only linear and quadratic equations are supported")
  }
}

// ---------------------------
// Normalization
// ---------------------------

var mathSymbolReplacer = strings.NewReplacer(
  "×", "*",
  "·", "*",
  "÷", "/",
  "−", "-",
  "–", "-",
  "²", "^2",
  "³", "^3",
  "**", "^",
)

func normalizeMath(s string) string {
  s = strings.TrimSpace(s)
  s = strings.TrimSuffix(s, "?")
  s = mathSymbolReplacer.Replace(s)
  s = strings.ReplaceAll(s, " ", "")
  return s
}

// ---------------------------
// Polynomial representation
// ---------------------------

// poly holds coefficients by degree in one variable.
type poly struct {
  coeffs map[int]*big.Rat
}

func newPoly() poly {
  return poly{coeffs: map[int]*big.Rat{}}
}

func constPoly(r *big.Rat) poly {
  p := newPoly()
  if r.Sign() != 0 {
    p.coeffs[0] = new(big.Rat).Set(r)
  }
  return p
}

func varPoly() poly {
  p := newPoly()
  p.coeffs[1] = big.NewRat(1, 1)
  return p
}

func (p poly) coeff(deg int) *big.Rat {
  if c, ok := p.coeffs[deg]; ok {
    return c
  }
  return big.NewRat(0, 1)
}

func (p poly) degree() int {
  d := 0
  for deg, c := range p.coeffs {
    if c.Sign() != 0 && deg > d {
      d = deg
    }
  }
  return d
}

func (p poly) add(q poly) poly {
  out := newPoly()
  for deg, c := range p.coeffs {
    out.coeffs[deg] = new(big.Rat).Set(c)
  }
  for deg, c := range q.coeffs {
    if cur, ok := out.coeffs[deg]; ok {
      cur.Add(cur, c)
    } else {
      out.coeffs[deg] = new(big.Rat).Set(c)
    }
  }
  return out
}

func (p poly) neg() poly {
  out := newPoly()
  for deg, c := range p.coeffs {
    out.coeffs[deg] = new(big.Rat).Neg(c)
  }
  return out
}

func (p poly) sub(q poly) poly {
  return p.add(q.neg())
}

func (p poly) mul(q poly) (poly, error) {
  out := newPoly()
  for d1, c1 := range p.coeffs {
    for d2, c2 := range q.coeffs {
      prod := new(big.Rat).Mul(c1, c2)
      if cur, ok := out.coeffs[d1+d2]; ok {
        cur.Add(cur, prod)
      } else {
        out.coeffs[d1+d2] = prod
      }
    }
  }
  if out.degree() > 2 {
    return poly{}, fmt.Errorf("degree above two is not supported")
  }
  return out, nil
}

func (p poly) divConst(q poly) (poly, error) {
  if q.degree() != 0 {
    return poly{}, fmt.Errorf("division by an expression containing the variable is not supported")
  }
  d := q.coeff(0)
  if d.Sign() == 0 {
    return poly{}, fmt.Errorf("division by zero")
  }
  out := newPoly()
  for deg, c := range p.coeffs {
    out.coeffs[deg] = new(big.Rat).Quo(c, d)
  }
  return out, nil
}

func (p poly) isConst() bool { return p.degree() == 0 }

// ---------------------------
// Parser
// ---------------------------

type mathParser struct {
  input    string
  pos      int
  variable string
}

// parsePolynomial parses one side of an equation. A previously seen
// variable name is passed in so both sides must agree on it.
func parsePolynomial(s string, variable string) (poly, string, error) {
  if strings.TrimSpace(s) == "" {
    return poly{}, variable, fmt.Errorf("empty expression")
  }
  p := &mathParser{input: s, variable: variable}
  out, err := p.parseExpr()
  if err != nil {
    return poly{}, variable, err
  }
  if p.pos != len(p.input) {
    return poly{}, variable, fmt.Errorf("unexpected %q at position %d", p.input[p.pos], p.pos)
  }
  return out, p.variable, nil
}

func (p *mathParser) peek() (byte, bool) {
  if p.pos >= len(p.input) {
    return 0, false
  }
  return p.input[p.pos], true
}

func (p *mathParser) parseExpr() (poly, error) {
  left, err := p.parseTerm()
  if err != nil {
    return poly{}, err
  }
  for {
    c, ok := p.peek()
    if !ok || (c != '+' && c != '-') {
      return left, nil
    }
    p.pos++
    right, err := p.parseTerm()
    if err != nil {
      return poly{}, err
    }
    if c == '+' {
      left = left.add(right)
    } else {
      left = left.sub(right)
    }
  }
}

func (p *mathParser) parseTerm() (poly, error) {
  left, err := p.parseFactor()
  if err != nil {
    return poly{}, err
  }
  for {
    c, ok := p.peek()
    if !ok {
      return left, nil
    }
    switch {
    case c == '*':
      p.pos++
      right, err := p.parseFactor()
      if err != nil {
        return poly{}, err
      }
      left, err = left.mul(right)
      if err != nil {
        return poly{}, err
      }
    case c == '/':
      p.pos++
      right, err := p.parseFactor()
      if err != nil {
        return poly{}, err
      }
      left, err = left.divConst(right)
      if err != nil {
        return poly{}, err
      }
    case isDigit(c) || isLetter(c) || c == '(':
      // Implicit multiplication: 2x, 3(x+1), x(x-2).
      right, err := p.parseFactor()
      if err != nil {
        return poly{}, err
      }
      left, err = left.mul(right)
      if err != nil {
        return poly{}, err
      }
    default:
      return left, nil
    }
  }
}

func (p *mathParser) parseFactor() (poly, error) {
  c, ok := p.peek()
  if !ok {
    return poly{}, fmt.Errorf("unexpected end of expression")
  }
  if c == '+' || c == '-' {
    p.pos++
    inner, err := p.parseFactor()
    if err != nil {
      return poly{}, err
    }
    if c == '-' {
      inner = inner.neg()
    }
    return inner, nil
  }

  base, err := p.parseAtom()
  if err != nil {
    return poly{}, err
  }

  if c, ok := p.peek(); ok && c == '^' {
    p.pos++
    exp, err := p.parseAtom()
    if err != nil {
      return poly{}, err
    }
    if !exp.isConst() || !exp.coeff(0).IsInt() {
      return poly{}, fmt.Errorf("only integer exponents are supported")
    }
    n := exp.coeff(0).Num().Int64()
    if n < 0 || n > 2 {
      return poly{}, fmt.Errorf("exponent %d is out of the supported range", n)
    }
    out := constPoly(big.NewRat(1, 1))
    for i := int64(0); i < n; i++ {
      out, err = out.mul(base)
      if err != nil {
        return poly{}, err
      }
    }
    return out, nil
  }
  return base, nil
}

func (p *mathParser) parseAtom() (poly, error) {
  c, ok := p.peek()
  if !ok {
    return poly{}, fmt.Errorf("unexpected end of expression")
  }

  if c == '(' {
    p.pos++
    inner, err := p.parseExpr()
    if err != nil {
      return poly{}, err
    }
    if c, ok := p.peek(); !ok || c != ')' {
      return poly{}, fmt.Errorf("missing closing parenthesis")
    }
    p.pos++
    return inner, nil
  }

  if isDigit(c) || c == '.' {
    start := p.pos
    for {
      c, ok := p.peek()
      if !ok || (!isDigit(c) && c != '.') {
        break
      }
      p.pos++
    }
    r, ok := new(big.Rat).SetString(p.input[start:p.pos])
    if !ok {
      return poly{}, fmt.Errorf("invalid number %q", p.input[start:p.pos])
    }
    return constPoly(r), nil
  }

  if isLetter(c) {
    name := string(c)
    p.pos++
    if p.variable == "" {
      p.variable = name
    } else if p.variable != name {
      return poly{}, fmt.Errorf("only one variable is supported, found %q and %q", p.variable, name)
    }
    return varPoly(), nil
  }

  return poly{}, fmt.Errorf("unexpected character %q", c)
}

func isDigit(c byte) bool  { return c >= '0' && c <= '9' }
func isLetter(c byte) bool { return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') }

// ---------------------------
// Solvers
// ---------------------------

func formatRat(r *big.Rat) string {
  if r.IsInt() {
    return r.Num().String()
  }
  f, _ := r.Float64()
  return trimFloat(f)
}

func trimFloat(f float64) string {
  s := fmt.Sprintf("%.4f", f)
  s = strings.TrimRight(s, "0")
  return strings.TrimRight(s, ".")
}

func solveArithmetic(problem string, p poly) (*types.MathSolution, error) {
  value := p.coeff(0)
  result := formatRat(value)

  steps := []types.MathStep{
    {
      StepNumber:         1,
      Explanation:        "Evaluate the expression using the order of operations",
      IntermediateResult: problem,
    },
    {
      StepNumber:         2,
      Explanation:        "Compute the result",
      IntermediateResult: result,
    },
  }
  return &types.MathSolution{
    Problem:     problem,
    Steps:       steps,
    FinalAnswer: result,
    Difficulty:  "basic",
  }, nil
}

// solveLinear works ax + b = 0 back into x = -b/a with readable steps.
func solveLinear(problem, variable string, diff poly) (*types.MathSolution, error) {
  a := diff.coeff(1)
  b := diff.coeff(0)

  // Present as ax = -b.
  rhs := new(big.Rat).Neg(b)
  answer := new(big.Rat).Quo(rhs, a)

  steps := []types.MathStep{
    {
      StepNumber:         1,
      Explanation:        "Start with the equation",
      IntermediateResult: problem,
    },
  }
  n := 2
  if b.Sign() != 0 {
    steps = append(steps, types.MathStep{
      StepNumber:         n,
      Explanation:        "Move the constant terms to the right side",
      IntermediateResult: fmt.Sprintf("%s%s = %s", formatCoeff(a), variable, formatRat(rhs)),
    })
    n++
  }
  if a.Cmp(big.NewRat(1, 1)) != 0 {
    steps = append(steps, types.MathStep{
      StepNumber:         n,
      Explanation:        fmt.Sprintf("Divide both sides by %s", formatRat(a)),
      IntermediateResult: fmt.Sprintf("%s = %s", variable, formatRat(answer)),
    })
  } else if b.Sign() == 0 {
    steps = append(steps, types.MathStep{
      StepNumber:         n,
      Explanation:        "The variable is already isolated",
      IntermediateResult: fmt.Sprintf("%s = %s", variable, formatRat(answer)),
    })
  }

  difficulty := "basic"
  if !answer.IsInt() {
    difficulty = "intermediate"
  }

  return &types.MathSolution{
    Problem:     problem,
    Steps:       steps,
    FinalAnswer: fmt.Sprintf("%s = %s", variable, formatRat(answer)),
    Difficulty:  difficulty,
  }, nil
}

func formatCoeff(r *big.Rat) string {
  if r.Cmp(big.NewRat(1, 1)) == 0 {
    return ""
  }
  if r.Cmp(big.NewRat(-1, 1)) == 0 {
    return "-"
  }
  return formatRat(r)
}

// solveQuadratic applies the quadratic formula to ax^2 + bx + c = 0.
func solveQuadratic(problem, variable string, diff poly) (*types.MathSolution, error) {
  a, _ := diff.coeff(2).Float64()
  b, _ := diff.coeff(1).Float64()
  c, _ := diff.coeff(0).Float64()

  disc := b*b - 4*a*c

  steps := []types.MathStep{
    {
      StepNumber:         1,
      Explanation:        "Start with the equation",
      IntermediateResult: problem,
    },
    {
      StepNumber:         2,
      Explanation:        "Write in standard form and identify the coefficients",
      IntermediateResult: fmt.Sprintf("a = %s, b = %s, c = %s", trimFloat(a), trimFloat(b), trimFloat(c)),
    },
    {
      StepNumber:         3,
      Explanation:        "Compute the discriminant b^2 - 4ac",
      IntermediateResult: trimFloat(disc),
    },
  }

  var final string
  switch {
  case disc < 0:
    final = "no real solutions"
    steps = append(steps, types.MathStep{
      StepNumber:         4,
      Explanation:        "The discriminant is negative, so there are no real solutions",
      IntermediateResult: final,
    })
  case disc == 0:
    root := -b / (2 * a)
    final = fmt.Sprintf("%s = %s", variable, trimFloat(root))
    steps = append(steps, types.MathStep{
      StepNumber:         4,
      Explanation:        "The discriminant is zero, so there is one repeated root",
      IntermediateResult: final,
    })
  default:
    sq := math.Sqrt(disc)
    r1 := (-b + sq) / (2 * a)
    r2 := (-b - sq) / (2 * a)
    final = fmt.Sprintf("%s = %s or %s = %s", variable, trimFloat(r1), variable, trimFloat(r2))
    steps = append(steps, types.MathStep{
      StepNumber:         4,
      Explanation:        "Apply the quadratic formula x = (-b ± √(b^2-4ac)) / 2a",
      IntermediateResult: final,
    })
  }

  return &types.MathSolution{
    Problem:     problem,
    Steps:       steps,
    FinalAnswer: final,
    Difficulty:  "advanced",
  }, nil
}
