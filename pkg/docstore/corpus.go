package docstore

// corpus is the embedded document set: product terms and target
// profiles. It seeds fresh stores and serves as the fallback when the
// live store is down.
var corpus = []Document{
	{
		ID:      "doc_vie_temporaire",
		Content: "L'assurance temporaire décès de BH Assurance garantit le versement d'un capital aux bénéficiaires en cas de décès pendant la période de couverture. Particulièrement adaptée aux emprunteurs et chefs de famille. Capital garanti de 50.000 à 500.000 DT. Primes à partir de 800 DT/an selon l'âge et le capital.",
		Metadata: map[string]string{
			"source":  "CG_TEMPORAIRE_DECES.txt",
			"type":    "contract_terms",
			"branch":  "life",
			"product": "TEMPORAIRE DECES",
		},
	},
	{
		ID:      "doc_retraite_horizon",
		Content: "Le contrat Horizon permet de constituer un capital retraite grâce à des versements réguliers ou ponctuels. Rendement garanti minimum 3%. Possibilité de récupérer le capital sous forme de rente viagère ou capital. Avantages fiscaux selon la réglementation en vigueur.",
		Metadata: map[string]string{
			"source":  "CG_HORIZON.txt",
			"type":    "contract_terms",
			"branch":  "life",
			"product": "ASSURANCE VIE COMPLEMENT RETRAITE - HORIZON",
		},
	},
	{
		ID:      "doc_sante_groupe",
		Content: "L'assurance groupe maladie couvre les frais médicaux, pharmaceutiques, d'hospitalisation et soins dentaires. Remboursement jusqu'à 200% du tarif CNAM. Prise en charge directe dans les cliniques conventionnées. Couverture familiale disponible.",
		Metadata: map[string]string{
			"source":  "CG_ASSURANCE_GROUPE_MALADIE.txt",
			"type":    "contract_terms",
			"branch":  "health",
			"product": "ASSURANCE GROUPE MALADIE",
		},
	},
	{
		ID:      "doc_auto_vehicules",
		Content: "L'assurance des véhicules terrestres à moteurs couvre la responsabilité civile obligatoire, les dommages tous accidents, vol, incendie. Extensions possibles : bris de glaces, assistance, valeur à neuf. Franchise à partir de 200 DT.",
		Metadata: map[string]string{
			"source":  "CG_VEHICULES_TERRESTRES.txt",
			"type":    "contract_terms",
			"branch":  "auto",
			"product": "ASSURANCE DES VEHICULES TERRESTRES A MOTEURS",
		},
	},
	{
		ID:      "doc_habitation_multirisque",
		Content: "La multirisque habitation protège votre logement et vos biens contre l'incendie, dégâts des eaux, vol, catastrophes naturelles. Responsabilité civile vie privée incluse. Capital mobilier jusqu'à 100.000 DT. Extension vol hors domicile possible.",
		Metadata: map[string]string{
			"source":  "CG_MULTIRISQUE_HABITATION.txt",
			"type":    "contract_terms",
			"branch":  "home",
			"product": "MULTIRISQUE HABITATION",
		},
	},
	{
		ID:      "profil_medecin",
		Content: "Profil type médecin : Revenus élevés et réguliers, besoin de protection prévoyance, responsabilité civile professionnelle indispensable, constitution d'un capital retraite prioritaire. Produits recommandés : assurance vie, retraite complémentaire, RC professionnelle.",
		Metadata: map[string]string{
			"source": "profils_cibles.csv",
			"type":   "customer_data",
			"branch": "PROFILING",
		},
	},
	{
		ID:      "profil_enseignant",
		Content: "Profil type enseignant : Revenus réguliers fonctionnaire, protection familiale importante, épargne pour enfants. Produits recommandés : assurance vie, épargne éducation, multirisque habitation, complémentaire santé.",
		Metadata: map[string]string{
			"source": "profils_cibles.csv",
			"type":   "customer_data",
			"branch": "PROFILING",
		},
	},
	{
		ID:      "profil_ingenieur",
		Content: "Profil type ingénieur : Revenus élevés secteur privé, mobilité professionnelle, patrimoine en constitution. Produits recommandés : assurance auto premium, prévoyance décès, épargne retraite, multirisque habitation.",
		Metadata: map[string]string{
			"source": "profils_cibles.csv",
			"type":   "customer_data",
			"branch": "PROFILING",
		},
	},
}

// genericFallback is served when no corpus document matches the query.
var genericFallback = []Document{
	{
		ID:      "fallback_vie",
		Content: "L'assurance vie est un pilier de la protection financière familiale, offrant sécurité et épargne.",
		Metadata: map[string]string{
			"source": "fallback",
			"type":   "product_description",
			"branch": "life",
		},
	},
	{
		ID:      "fallback_sante",
		Content: "L'assurance santé garantit l'accès aux soins de qualité et la protection contre les frais médicaux.",
		Metadata: map[string]string{
			"source": "fallback",
			"type":   "product_description",
			"branch": "health",
		},
	},
}
