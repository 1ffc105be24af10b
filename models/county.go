package models

type County struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type City struct {
	ID     int64      `json:"id"`
	Name   string     `json:"name"`
	Zip    FlexString `json:"zip"`
	County FlexString `json:"county"`
}

func FindCounty(counties []County, id int64) (County, bool) {
	for _, c := range counties {
		if c.ID == id {
			return c, true
		}
	}
	return County{}, false
}

func FindCity(cities []City, id int64) (City, bool) {
	for _, c := range cities {
		if c.ID == id {
			return c, true
		}
	}
	return City{}, false
}

type CountyForm struct {
	Name string `form:"name" validate:"required,max=255"`
}

type CityForm struct {
	Name    string `form:"name" validate:"required,max=255"`
	ZipCode string `form:"zip_code" validate:"required,max=10"`
}
