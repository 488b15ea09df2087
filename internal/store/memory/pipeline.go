package memory

import (
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/yusuf/schoolregistry/internal/store"
)

// runPipeline interprets the aggregation stages used by the service:
// $match, $group ($sum/$max), $sort, $skip, $limit, $lookup, $unwind,
// $project and $replaceRoot.
func (c *Collection) runPipeline(docs []bson.M, pipeline store.Pipeline) ([]bson.M, error) {
	var err error
	for _, stage := range pipeline {
		if len(stage) != 1 {
			return nil, fmt.Errorf("aggregating %s: each stage must hold exactly one operator", c.name)
		}

		for op, spec := range stage {
			switch op {
			case "$match":
				docs, err = applyMatch(docs, spec)
			case "$group":
				docs, err = applyGroup(docs, spec)
			case "$sort":
				docs, err = applySort(docs, spec)
			case "$skip":
				docs, err = applySkip(docs, spec)
			case "$limit":
				docs, err = applyLimit(docs, spec)
			case "$lookup":
				docs, err = c.applyLookup(docs, spec)
			case "$unwind":
				docs, err = applyUnwind(docs, spec)
			case "$project":
				docs, err = applyProject(docs, spec)
			case "$replaceRoot":
				docs, err = applyReplaceRoot(docs, spec)
			default:
				err = fmt.Errorf("unsupported stage %s", op)
			}
			if err != nil {
				return nil, fmt.Errorf("aggregating %s: %w", c.name, err)
			}
		}
	}
	return docs, nil
}

func applyMatch(docs []bson.M, spec interface{}) ([]bson.M, error) {
	filter, ok := spec.(bson.M)
	if !ok {
		return nil, fmt.Errorf("$match expects a filter document")
	}

	var out []bson.M
	for _, doc := range docs {
		if matchDoc(doc, filter) {
			out = append(out, doc)
		}
	}
	return out, nil
}

func applyGroup(docs []bson.M, spec interface{}) ([]bson.M, error) {
	groupSpec, ok := spec.(bson.M)
	if !ok {
		return nil, fmt.Errorf("$group expects a document")
	}

	idExpr, ok := groupSpec["_id"]
	if !ok {
		return nil, fmt.Errorf("$group requires an _id expression")
	}

	type groupState struct {
		key interface{}
		doc bson.M
	}

	var order []string
	groups := make(map[string]*groupState)

	for _, doc := range docs {
		key := evalExpr(doc, idExpr)
		mapKey := groupKey(key)

		state, exists := groups[mapKey]
		if !exists {
			state = &groupState{key: key, doc: bson.M{"_id": key}}
			groups[mapKey] = state
			order = append(order, mapKey)
		}

		for field, accSpec := range groupSpec {
			if field == "_id" {
				continue
			}
			acc, ok := accSpec.(bson.M)
			if !ok || len(acc) != 1 {
				return nil, fmt.Errorf("$group accumulator for %s must be a single-operator document", field)
			}

			for accOp, operand := range acc {
				switch accOp {
				case "$sum":
					increment, ok := toFloat(evalExpr(doc, operand))
					if !ok {
						increment = 0
					}
					current, _ := toFloat(state.doc[field])
					state.doc[field] = current + increment
				case "$max":
					value := evalExpr(doc, operand)
					if value == nil {
						continue
					}
					existing, has := state.doc[field]
					if !has || existing == nil {
						state.doc[field] = value
						continue
					}
					if cmp, ok := compareValues(value, existing); ok && cmp > 0 {
						state.doc[field] = value
					}
				default:
					return nil, fmt.Errorf("unsupported accumulator %s", accOp)
				}
			}
		}
	}

	out := make([]bson.M, 0, len(order))
	for _, mapKey := range order {
		out = append(out, groups[mapKey].doc)
	}
	return out, nil
}

func applySort(docs []bson.M, spec interface{}) ([]bson.M, error) {
	switch sortSpec := spec.(type) {
	case bson.M:
		if len(sortSpec) != 1 {
			return nil, fmt.Errorf("$sort supports exactly one key")
		}
		for key, order := range sortSpec {
			sortDocs(docs, key, toSortOrder(order))
		}
	case bson.D:
		if len(sortSpec) != 1 {
			return nil, fmt.Errorf("$sort supports exactly one key")
		}
		sortDocs(docs, sortSpec[0].Key, toSortOrder(sortSpec[0].Value))
	default:
		return nil, fmt.Errorf("$sort expects a document")
	}
	return docs, nil
}

func applySkip(docs []bson.M, spec interface{}) ([]bson.M, error) {
	n, ok := toFloat(spec)
	if !ok || n < 0 {
		return nil, fmt.Errorf("$skip expects a non-negative number")
	}
	if int(n) >= len(docs) {
		return nil, nil
	}
	return docs[int(n):], nil
}

func applyLimit(docs []bson.M, spec interface{}) ([]bson.M, error) {
	n, ok := toFloat(spec)
	if !ok || n < 0 {
		return nil, fmt.Errorf("$limit expects a non-negative number")
	}
	if int(n) < len(docs) {
		return docs[:int(n)], nil
	}
	return docs, nil
}

func (c *Collection) applyLookup(docs []bson.M, spec interface{}) ([]bson.M, error) {
	lookupSpec, ok := spec.(bson.M)
	if !ok {
		return nil, fmt.Errorf("$lookup expects a document")
	}

	from, _ := lookupSpec["from"].(string)
	localField, _ := lookupSpec["localField"].(string)
	foreignField, _ := lookupSpec["foreignField"].(string)
	as, _ := lookupSpec["as"].(string)
	if from == "" || localField == "" || foreignField == "" || as == "" {
		return nil, fmt.Errorf("$lookup requires from, localField, foreignField and as")
	}

	foreign := c.db.state(from).docs

	for _, doc := range docs {
		localValue := doc[localField]
		matches := make([]interface{}, 0)
		for _, candidate := range foreign {
			if equalValues(candidate[foreignField], localValue) {
				matches = append(matches, copyDoc(candidate))
			}
		}
		doc[as] = matches
	}
	return docs, nil
}

func applyUnwind(docs []bson.M, spec interface{}) ([]bson.M, error) {
	path, ok := spec.(string)
	if !ok || !strings.HasPrefix(path, "$") {
		return nil, fmt.Errorf("$unwind expects a field path")
	}
	field := strings.TrimPrefix(path, "$")

	var out []bson.M
	for _, doc := range docs {
		elements, ok := toArray(doc[field])
		if !ok || len(elements) == 0 {
			// Documents without a matching array are dropped, as mongo does
			// by default.
			continue
		}
		for _, element := range elements {
			expanded := copyDoc(doc)
			expanded[field] = element
			out = append(out, expanded)
		}
	}
	return out, nil
}

func applyProject(docs []bson.M, spec interface{}) ([]bson.M, error) {
	projectSpec, ok := spec.(bson.M)
	if !ok {
		return nil, fmt.Errorf("$project expects a document")
	}

	inclusion := false
	for field, value := range projectSpec {
		if ref, ok := value.(string); ok && strings.HasPrefix(ref, "$") {
			inclusion = true
			break
		}
		if f, ok := toFloat(value); ok && f != 0 && field != "_id" {
			inclusion = true
			break
		}
	}

	out := make([]bson.M, 0, len(docs))
	for _, doc := range docs {
		var projected bson.M
		if inclusion {
			projected = bson.M{}
			if _, ok := doc["_id"]; ok {
				projected["_id"] = doc["_id"]
			}
			for field, value := range projectSpec {
				if ref, ok := value.(string); ok && strings.HasPrefix(ref, "$") {
					projected[field] = evalExpr(doc, value)
					continue
				}
				if f, ok := toFloat(value); ok {
					if f == 0 {
						delete(projected, field)
					} else {
						projected[field] = doc[field]
					}
				}
			}
		} else {
			projected = copyDoc(doc)
			for field := range projectSpec {
				delete(projected, field)
			}
		}
		out = append(out, projected)
	}
	return out, nil
}

func applyReplaceRoot(docs []bson.M, spec interface{}) ([]bson.M, error) {
	rootSpec, ok := spec.(bson.M)
	if !ok {
		return nil, fmt.Errorf("$replaceRoot expects a document")
	}
	newRoot, ok := rootSpec["newRoot"].(string)
	if !ok || !strings.HasPrefix(newRoot, "$") {
		return nil, fmt.Errorf("$replaceRoot requires a newRoot field path")
	}

	var out []bson.M
	for _, doc := range docs {
		value := evalExpr(doc, newRoot)
		root, ok := toDocValue(value)
		if !ok {
			return nil, fmt.Errorf("$replaceRoot path %s does not resolve to a document", newRoot)
		}
		out = append(out, root)
	}
	return out, nil
}

// evalExpr resolves "$field" (including dotted paths) references against doc;
// any other value is a constant.
func evalExpr(doc bson.M, expr interface{}) interface{} {
	path, ok := expr.(string)
	if !ok || !strings.HasPrefix(path, "$") {
		return expr
	}

	current := interface{}(doc)
	for _, part := range strings.Split(strings.TrimPrefix(path, "$"), ".") {
		m, ok := toDocValue(current)
		if !ok {
			return nil
		}
		current = m[part]
	}
	return current
}

func toDocValue(v interface{}) (bson.M, bool) {
	switch m := v.(type) {
	case bson.M:
		return m, true
	case map[string]interface{}:
		return bson.M(m), true
	}
	return nil, false
}

func toArray(v interface{}) ([]interface{}, bool) {
	switch arr := v.(type) {
	case []interface{}:
		return arr, true
	case bson.A:
		return arr, true
	case []bson.M:
		out := make([]interface{}, len(arr))
		for i := range arr {
			out[i] = arr[i]
		}
		return out, true
	}
	return nil, false
}

func groupKey(v interface{}) string {
	if v == nil {
		return "\x00nil"
	}
	if f, ok := toFloat(v); ok {
		return fmt.Sprintf("n:%v", f)
	}
	return fmt.Sprintf("%T:%v", v, v)
}
