// Package sky provides the celestial coordinates used by source orientations:
// galactic (l, b) and J2000 equatorial (ra, dec) positions in degrees, with
// conversion between the two frames.
package sky

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrInvalidCoordinate is returned for non-finite or out-of-range angles.
var ErrInvalidCoordinate = errors.New("invalid coordinate")

// Coordinate is any sky position that can be expressed in the galactic frame.
type Coordinate interface {
	Galactic() Galactic
}

// Galactic is a position in the galactic frame, in degrees.
type Galactic struct {
	L float64 // longitude
	B float64 // latitude, [-90, 90]
}

// Equatorial is a J2000 equatorial position, in degrees.
type Equatorial struct {
	RA  float64
	Dec float64 // [-90, 90]
}

// Rotation from J2000 equatorial to galactic cartesian coordinates (Hipparcos).
var equatorialToGalactic = [3][3]float64{
	{-0.0548755604162154, -0.8734370902348850, -0.4838350155487132},
	{+0.4941094278755837, -0.4448296299600112, +0.7469822444972189},
	{-0.8676661490190047, -0.1980763734312015, +0.4559837761750669},
}

// NewGalactic returns a validated galactic position.
func NewGalactic(l, b float64) (Galactic, error) {
	g := Galactic{L: l, B: b}
	if err := g.Validate(); err != nil {
		return Galactic{}, err
	}
	return g, nil
}

// NewEquatorial returns a validated equatorial position.
func NewEquatorial(ra, dec float64) (Equatorial, error) {
	e := Equatorial{RA: ra, Dec: dec}
	if err := e.Validate(); err != nil {
		return Equatorial{}, err
	}
	return e, nil
}

// ParseGalactic parses longitude and latitude tokens in degrees.
func ParseGalactic(lon, lat string) (Galactic, error) {
	l, err := strconv.ParseFloat(lon, 64)
	if err != nil {
		return Galactic{}, fmt.Errorf("%w: longitude %q is not numeric", ErrInvalidCoordinate, lon)
	}
	b, err := strconv.ParseFloat(lat, 64)
	if err != nil {
		return Galactic{}, fmt.Errorf("%w: latitude %q is not numeric", ErrInvalidCoordinate, lat)
	}
	return NewGalactic(l, b)
}

// Galactic implements Coordinate.
func (g Galactic) Galactic() Galactic { return g }

// Validate checks that both angles are finite and the latitude is in range.
func (g Galactic) Validate() error {
	return validate("l", g.L, "b", g.B)
}

// Normalized returns the same position with the longitude wrapped into [0, 360).
func (g Galactic) Normalized() Galactic {
	return Galactic{L: wrap360(g.L), B: g.B}
}

// Equatorial converts the position to the J2000 equatorial frame.
func (g Galactic) Equatorial() Equatorial {
	v := toCartesian(g.L, g.B)
	m := equatorialToGalactic
	// Inverse rotation is the transpose.
	e := [3]float64{
		m[0][0]*v[0] + m[1][0]*v[1] + m[2][0]*v[2],
		m[0][1]*v[0] + m[1][1]*v[1] + m[2][1]*v[2],
		m[0][2]*v[0] + m[1][2]*v[1] + m[2][2]*v[2],
	}
	ra, dec := fromCartesian(e)
	return Equatorial{RA: ra, Dec: dec}
}

func (g Galactic) String() string {
	return fmt.Sprintf("l=%s b=%s", FormatDegrees(g.L), FormatDegrees(g.B))
}

// Galactic implements Coordinate by converting to the galactic frame.
func (e Equatorial) Galactic() Galactic {
	v := toCartesian(e.RA, e.Dec)
	m := equatorialToGalactic
	g := [3]float64{
		m[0][0]*v[0] + m[0][1]*v[1] + m[0][2]*v[2],
		m[1][0]*v[0] + m[1][1]*v[1] + m[1][2]*v[2],
		m[2][0]*v[0] + m[2][1]*v[1] + m[2][2]*v[2],
	}
	l, b := fromCartesian(g)
	return Galactic{L: l, B: b}
}

// Validate checks that both angles are finite and the declination is in range.
func (e Equatorial) Validate() error {
	return validate("ra", e.RA, "dec", e.Dec)
}

func (e Equatorial) String() string {
	return fmt.Sprintf("ra=%s dec=%s", FormatDegrees(e.RA), FormatDegrees(e.Dec))
}

// Separation returns the angular distance between two positions in degrees.
func Separation(a, b Coordinate) float64 {
	ga, gb := a.Galactic(), b.Galactic()
	l1, b1 := radians(ga.L), radians(ga.B)
	l2, b2 := radians(gb.L), radians(gb.B)
	dl := l2 - l1

	// Vincenty form, stable for small and antipodal separations.
	num1 := math.Cos(b2) * math.Sin(dl)
	num2 := math.Cos(b1)*math.Sin(b2) - math.Sin(b1)*math.Cos(b2)*math.Cos(dl)
	den := math.Sin(b1)*math.Sin(b2) + math.Cos(b1)*math.Cos(b2)*math.Cos(dl)
	return degrees(math.Atan2(math.Hypot(num1, num2), den))
}

// FormatDegrees renders an angle as a decimal string that always carries a
// fractional part, e.g. 10 -> "10.0", -21.6 -> "-21.6".
func FormatDegrees(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsRune(s, '.') {
		s += ".0"
	}
	return s
}

func validate(lonName string, lon float64, latName string, lat float64) error {
	if math.IsNaN(lon) || math.IsInf(lon, 0) {
		return fmt.Errorf("%w: %s must be finite, got %v", ErrInvalidCoordinate, lonName, lon)
	}
	if math.IsNaN(lat) || math.IsInf(lat, 0) {
		return fmt.Errorf("%w: %s must be finite, got %v", ErrInvalidCoordinate, latName, lat)
	}
	if lat < -90 || lat > 90 {
		return fmt.Errorf("%w: %s %v outside [-90, 90]", ErrInvalidCoordinate, latName, lat)
	}
	return nil
}

func toCartesian(lonDeg, latDeg float64) [3]float64 {
	lon, lat := radians(lonDeg), radians(latDeg)
	return [3]float64{
		math.Cos(lat) * math.Cos(lon),
		math.Cos(lat) * math.Sin(lon),
		math.Sin(lat),
	}
}

func fromCartesian(v [3]float64) (lonDeg, latDeg float64) {
	lon := math.Atan2(v[1], v[0])
	lat := math.Atan2(v[2], math.Hypot(v[0], v[1]))
	return wrap360(degrees(lon)), degrees(lat)
}

func wrap360(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}

func radians(deg float64) float64 { return deg * math.Pi / 180 }

func degrees(rad float64) float64 { return rad * 180 / math.Pi }
