package feature_test

import (
	"fmt"

	"github.com/matzehuels/semtree/pkg/feature"
)

func ExampleParse() {
	f, _ := feature.Parse("forget-relation-node,merge-members-into-label")
	fmt.Println(uint32(f))
	fmt.Println(f.Has(feature.ForgetRelationNode))
	fmt.Println(f)
	// Output:
	// 10
	// true
	// forget-relation-node,merge-members-into-label
}
