package repository

import (
	"regexp"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/fathima-sithara/poseidon-service/internal/models"
)

// Dataset field names.
const (
	fieldSurvived = "Survived"
	fieldPclass   = "Pclass"
	fieldName     = "Name"
	fieldSex      = "Sex"
	fieldAge      = "Age"
	fieldFare     = "Fare"

	adultAge = 18
)

func classFilter(pclass int) bson.M {
	return bson.M{fieldPclass: pclass}
}

// genderFilter is a case-insensitive exact match.
func genderFilter(sex string) bson.M {
	return bson.M{fieldSex: exactFold(sex)}
}

// ageRangeFilter is inclusive; documents without an age never match.
func ageRangeFilter(minAge, maxAge float64) bson.M {
	return bson.M{fieldAge: bson.M{"$gte": minAge, "$lte": maxAge}}
}

func fareRangeFilter(minFare, maxFare float64) bson.M {
	return bson.M{fieldFare: bson.M{"$gte": minFare, "$lte": maxFare}}
}

// survivedValues are the stored forms Flag decodes as true.
var survivedValues = bson.A{1, true}

func survivorsFilter() bson.M {
	return bson.M{fieldSurvived: bson.M{"$in": survivedValues}}
}

func minorFilter(sex string) bson.M {
	f := bson.M{fieldAge: bson.M{"$lt": adultAge}}
	if sex != "" {
		f[fieldSex] = exactFold(sex)
	}
	return f
}

func adultFilter() bson.M {
	return bson.M{fieldAge: bson.M{"$gte": adultAge}}
}

// searchFilter ANDs every criterion that is set. No criteria matches all.
func searchFilter(c models.PassengerSearchCriteria) bson.M {
	f := bson.M{}
	if c.Name != nil && strings.TrimSpace(*c.Name) != "" {
		f[fieldName] = primitive.Regex{Pattern: regexp.QuoteMeta(*c.Name), Options: "i"}
	}
	if c.Pclass != nil {
		f[fieldPclass] = *c.Pclass
	}
	if c.Sex != nil && *c.Sex != "" {
		f[fieldSex] = exactFold(*c.Sex)
	}
	if r := rangeCond(c.MinAge, c.MaxAge); r != nil {
		f[fieldAge] = r
	}
	if r := rangeCond(c.MinFare, c.MaxFare); r != nil {
		f[fieldFare] = r
	}
	return f
}

func rangeCond(lo, hi *float64) bson.M {
	if lo == nil && hi == nil {
		return nil
	}
	r := bson.M{}
	if lo != nil {
		r["$gte"] = *lo
	}
	if hi != nil {
		r["$lte"] = *hi
	}
	return r
}

func exactFold(s string) primitive.Regex {
	return primitive.Regex{Pattern: "^" + regexp.QuoteMeta(s) + "$", Options: "i"}
}

// survivalPipeline counts matching documents and survivors in one pass.
func survivalPipeline(filter bson.M) bson.A {
	return bson.A{
		bson.M{"$match": filter},
		bson.M{"$group": bson.M{
			"_id":   nil,
			"total": bson.M{"$sum": 1},
			"survivors": bson.M{"$sum": bson.M{
				"$cond": bson.A{bson.M{"$in": bson.A{"$" + fieldSurvived, survivedValues}}, 1, 0},
			}},
		}},
	}
}

// rate returns survivors/total*100, or 0 for an empty subset.
func rate(survivors, total int64) float64 {
	if total == 0 {
		return 0
	}
	return float64(survivors) / float64(total) * 100
}
