package search

import "github.com/marovi/company-search/internal/domain"

// companyRow is the projected aggregation result shape.
type companyRow struct {
	Score                      float64 `bson:"score"`
	CompanyName                string  `bson:"company_name"`
	CompanyDescription         string  `bson:"company_description"`
	CompanyHeadquartersCountry string  `bson:"company_headquarters_country"`
	Industry                   string  `bson:"industry"`
}

func (r companyRow) toDomain() domain.CompanyRecord {
	return domain.CompanyRecord{
		Score:               r.Score,
		Name:                r.CompanyName,
		Description:         r.CompanyDescription,
		HeadquartersCountry: r.CompanyHeadquartersCountry,
		Industry:            r.Industry,
	}
}
