package domain

// The relation vocabulary is closed: every edge's relation_type must be one
// of the labels below, grouped by the endpoint types they connect. Labels
// are Korean by contract with the extraction prompt.

// RelationUnknown covers relations that exist but cannot be classified.
const RelationUnknown = "불명"

var (
	// RelationsPersonPerson classify interpersonal edges.
	RelationsPersonPerson = []string{
		"형제자매",
		"부모자식",
		"가족기타",
		"친구",
		"연인",
		"선후배",
		"직장동료",
		"스승제자",
		"라이벌",
		"기타인물관계",
	}

	// RelationsPersonPlace classify person-to-place edges.
	RelationsPersonPlace = []string{
		"위치",
		"거주지",
		"출신지",
		"만남장소",
		"여행지",
		"기타장소관계",
	}

	// RelationsPersonEvent classify person-to-event edges.
	RelationsPersonEvent = []string{
		"참여",
		"주최",
		"피해자",
		"가해자",
		"기타이벤트관계",
	}

	// RelationsPersonObject classify person-to-object edges.
	RelationsPersonObject = []string{
		"소유",
		"사용",
		"선물",
		"상징",
		"기타사물관계",
	}
)

// RelationTypes returns the full closed vocabulary in group order.
func RelationTypes() []string {
	out := make([]string, 0, 32)
	out = append(out, RelationsPersonPerson...)
	out = append(out, RelationsPersonPlace...)
	out = append(out, RelationsPersonEvent...)
	out = append(out, RelationsPersonObject...)
	out = append(out, RelationUnknown)
	return out
}

var relationSet = func() map[string]struct{} {
	set := make(map[string]struct{})
	for _, label := range RelationTypes() {
		set[label] = struct{}{}
	}
	return set
}()

// IsRelationType reports whether label belongs to the closed vocabulary.
func IsRelationType(label string) bool {
	_, ok := relationSet[label]
	return ok
}
